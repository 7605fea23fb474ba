package worker

// retry_cron.go
// Background goroutine that periodically moves delayed recompute jobs
// back onto the live queue. The worker parks a failed job on the
// delayed list instead of hot-looping it; this tick gives the failure
// (usually a transient DB hiccup) time to clear.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// StartRetryCron launches a background goroutine that ticks every 30s
// and requeues up to retryBatchSize delayed jobs per tick. It respects
// the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				requeueDelayed(ctx, rdb)
			}
		}
	}()
}

func requeueDelayed(ctx context.Context, rdb *redis.Client) {
	moved := 0
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, QueueRecomputeDelayed).Result()
		if err != nil {
			break // empty list or redis unavailable — try next tick
		}
		job := Job{Type: "recompute", Payload: []byte(raw)}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-wrap job")
			continue
		}
		if err := rdb.LPush(ctx, QueueRecompute, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to requeue job")
			continue
		}
		moved++
	}
	if moved > 0 {
		log.Info().Int("count", moved).Msg("retry_cron: requeued delayed recompute jobs")
	}
}
