package service

import "context"

// RecomputeDispatcher schedules async commercial cost recomputation.
// Satisfied by worker.Dispatcher.
type RecomputeDispatcher interface {
	EnqueueTenderRecompute(ctx context.Context, tenderID string) error
	EnqueuePositionRecompute(ctx context.Context, tenderID, positionID string) error
}
