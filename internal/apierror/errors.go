package apierror

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors classifying every failure the engine can surface.
// Handlers map them to HTTP statuses with errors.Is; nothing here is
// retried automatically.
var (
	// ErrValidation covers bad requests: empty or overlapping
	// source/target sets, non-positive or out-of-range percentages.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers missing tenders, categories, requests and the
	// absence of an active redistribution.
	ErrNotFound = errors.New("not found")

	// ErrPrecondition covers states the caller must establish first,
	// e.g. invoking the calculator without an active markup profile.
	ErrPrecondition = errors.New("precondition failed")
)

// PartialBatchError reports a batch write that completed with per-item
// failures. The operation as a whole is not aborted; callers surface a
// warning naming the affected items.
type PartialBatchError struct {
	FailedIDs []uuid.UUID
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("batch completed with %d failed items", len(e.FailedIDs))
}
