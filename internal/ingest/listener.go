package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gamedaybot/gameday/internal/registry"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second

	// Edits from the config UI often come in bursts (add team, fix role,
	// fix channel); coalesce them into one cycle.
	debounce = 5 * time.Second
)

// StartListener holds a dedicated connection (not from the pool) listening
// on the watch_changed channel and runs an ingestion cycle whenever the
// registry changes, so a newly added target gets events immediately instead
// of waiting for the next daily run. Reconnects automatically on connection
// loss. Blocks until ctx is cancelled. Intended to be called with `go`.
func StartListener(ctx context.Context, dbURL string, cycle *Cycle, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, cycle, logger)
		if ctx.Err() != nil {
			logger.Info("Watch listener stopped (context cancelled)")
			return
		}

		logger.Error("Watch listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection
// drops or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, cycle *Cycle, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+registry.ChangeChannel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", registry.ChangeChannel, err)
	}
	logger.Info("Watch listener connected", "channel", registry.ChangeChannel)

	for {
		if _, err := conn.WaitForNotification(ctx); err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		logger.Info("Watch registry changed, scheduling ingestion")

		select {
		case <-time.After(debounce):
		case <-ctx.Done():
			return ctx.Err()
		}

		cycle.Run(ctx)
	}
}
