package service

import (
	"fmt"

	"tenderhub/internal/apierror"
)

// Re-exported so service code and its callers share one taxonomy.
var (
	ErrValidation   = apierror.ErrValidation
	ErrNotFound     = apierror.ErrNotFound
	ErrPrecondition = apierror.ErrPrecondition
)

// PartialBatchError is defined in apierror so the worker can classify
// it without importing this package.
type PartialBatchError = apierror.PartialBatchError

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
