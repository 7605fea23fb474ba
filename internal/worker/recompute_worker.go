package worker

import (
	"context"
	"encoding/json"
	"errors"

	"tenderhub/internal/apierror"
	"tenderhub/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxRecomputeAttempts bounds how often a failing recompute job is
// retried before landing in the dead letter queue.
const MaxRecomputeAttempts = 5

// Recomputer is the slice of the costing service the worker needs.
// Declared here so the worker package stays below the service layer.
type Recomputer interface {
	RecomputeTender(ctx context.Context, tenderID uuid.UUID) (*dto.RecomputeResponse, error)
	RecomputePosition(ctx context.Context, positionID uuid.UUID) (*dto.RecomputeResponse, error)
}

// RecomputeWorker processes queued commercial cost recomputations.
type RecomputeWorker struct {
	costing Recomputer
}

func NewRecomputeWorker(costing Recomputer) *RecomputeWorker {
	return &RecomputeWorker{costing: costing}
}

func (w *RecomputeWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload RecomputePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recompute worker: bad payload")
		return
	}

	err := w.run(ctx, payload)
	if err == nil {
		return
	}

	// Validation/precondition failures will not heal by retrying —
	// a tender without an active profile needs an operator, not a loop.
	if errors.Is(err, apierror.ErrValidation) || errors.Is(err, apierror.ErrPrecondition) || errors.Is(err, apierror.ErrNotFound) {
		log.Warn().
			Str("tender_id", payload.TenderID).
			Err(err).
			Msg("recompute worker: job dropped, not retryable")
		return
	}

	payload.Attempts++
	if payload.Attempts >= MaxRecomputeAttempts {
		data, _ := json.Marshal(payload)
		SendToDLQ(ctx, rdb, QueueRecompute, "recompute", data, err.Error(), payload.Attempts)
		return
	}

	data, err2 := json.Marshal(payload)
	if err2 != nil {
		log.Error().Err(err2).Msg("recompute worker: failed to marshal retry payload")
		return
	}
	if err2 := rdb.LPush(ctx, QueueRecomputeDelayed, data).Err(); err2 != nil {
		log.Error().Err(err2).Msg("recompute worker: failed to schedule retry")
		return
	}
	log.Warn().
		Str("tender_id", payload.TenderID).
		Int("attempts", payload.Attempts).
		Err(err).
		Msg("recompute worker: job failed, retry scheduled")
}

func (w *RecomputeWorker) run(ctx context.Context, payload RecomputePayload) error {
	if payload.PositionID != "" {
		positionID, err := uuid.Parse(payload.PositionID)
		if err != nil {
			return err
		}
		resp, err := w.costing.RecomputePosition(ctx, positionID)
		if err != nil {
			return err
		}
		logResult(payload, resp.Computed, resp.Skipped, len(resp.FailedIDs))
		return batchErr(resp.FailedIDs)
	}

	tenderID, err := uuid.Parse(payload.TenderID)
	if err != nil {
		return err
	}
	resp, err := w.costing.RecomputeTender(ctx, tenderID)
	if err != nil {
		return err
	}
	logResult(payload, resp.Computed, resp.Skipped, len(resp.FailedIDs))
	return batchErr(resp.FailedIDs)
}

// batchErr converts per-item persistence failures into a retryable
// error. Recompute is idempotent, so rerunning the whole job picks the
// failed items up again.
func batchErr(failed []string) error {
	if len(failed) == 0 {
		return nil
	}
	e := &apierror.PartialBatchError{}
	for _, raw := range failed {
		if id, err := uuid.Parse(raw); err == nil {
			e.FailedIDs = append(e.FailedIDs, id)
		}
	}
	return e
}

func logResult(payload RecomputePayload, computed, skipped, failed int) {
	evt := log.Info()
	if failed > 0 {
		evt = log.Warn()
	}
	evt.
		Str("tender_id", payload.TenderID).
		Str("position_id", payload.PositionID).
		Int("computed", computed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("recompute job finished")
}
