package ingest

import (
	"context"
	"log/slog"
	"time"
)

const dailyInterval = 24 * time.Hour

// StartScheduler drives the daily ingestion schedule: one run immediately,
// one at the next local midnight, then every 24 hours for the life of the
// process. The schedule is a relative timer chain, not a cron — drift across
// restarts is accepted. Blocks until ctx is cancelled. Intended to be
// called with `go`.
func StartScheduler(ctx context.Context, cycle *Cycle, logger *slog.Logger) {
	logger.Info("Ingestion scheduler started")

	// Initial run at process start.
	cycle.Run(ctx)

	delay := untilNextMidnight(time.Now())
	logger.Info("Next ingestion at local midnight", "in", delay.Round(time.Second))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		logger.Info("Ingestion scheduler stopped")
		return
	}

	cycle.Run(ctx)

	ticker := time.NewTicker(dailyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cycle.Run(ctx)
		case <-ctx.Done():
			logger.Info("Ingestion scheduler stopped")
			return
		}
	}
}

// untilNextMidnight returns the duration from now to the next local
// midnight.
func untilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		Add(24 * time.Hour)
	return next.Sub(now)
}
