package main

import (
	"context"
	"time"

	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/metrics"
)

const flushJob = "pool_flush"

// runFlusher writes dirty pools every interval until ctx is done. Services already flush
// after each mutation; this catches writes whose flush failed.
func runFlusher(ctx context.Context, repos *store.Repositories, interval time.Duration, jobs *metrics.JobMetrics, logg *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	jobCtx := logg.WithField(ctx, "job", flushJob)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			err := repos.Flush(ctx)
			jobs.Observe(flushJob, time.Since(start), err)
			if err != nil {
				logg.Error(jobCtx, "periodic flush failed", err)
			}
		}
	}
}
