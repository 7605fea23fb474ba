package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the two stores the engine depends on: the
// tender database and the recompute job queue. Degraded answers 503 so
// load balancers stop routing before recompute jobs start piling up.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		queueStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			queueStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || queueStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":        status == http.StatusOK,
			"database":  dbStatus,
			"job_queue": queueStatus,
		})
	}
}
