package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueRecompute = "jobs:recompute"
	// QueueRecomputeDelayed holds failed recompute jobs awaiting their
	// next attempt; the retry cron moves them back onto QueueRecompute.
	QueueRecomputeDelayed = "jobs:recompute:delayed"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RecomputePayload identifies what to recompute: a whole tender, or a
// single position when PositionID is set.
type RecomputePayload struct {
	TenderID   string `json:"tender_id"`
	PositionID string `json:"position_id,omitempty"`
	Attempts   int    `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueTenderRecompute schedules a full-tender commercial cost
// recomputation, typically after a markup profile change.
func (d *Dispatcher) EnqueueTenderRecompute(ctx context.Context, tenderID string) error {
	return d.enqueue(ctx, QueueRecompute, RecomputePayload{TenderID: tenderID})
}

// EnqueuePositionRecompute schedules recomputation of one position,
// typically after an item edit.
func (d *Dispatcher) EnqueuePositionRecompute(ctx context.Context, tenderID, positionID string) error {
	return d.enqueue(ctx, QueueRecompute, RecomputePayload{TenderID: tenderID, PositionID: positionID})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, payload RecomputePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: "recompute", Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers holds the concrete job processors, wired at the composition
// root so the pool has access to all infrastructure dependencies.
type Handlers struct {
	Recompute *RecomputeWorker
}

// StartWorkerPool launches numWorkers goroutines consuming the job queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueRecompute).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "recompute":
		handlers.Recompute.Process(ctx, rdb, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type dropped")
	}
}
