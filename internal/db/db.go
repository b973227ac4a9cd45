// Package db provides a pgxpool-based connection pool with schema bootstrap,
// prepared statement registration, and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamedaybot/gameday/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool, then applies the schema.
// A failure here is fatal at boot — the cycles never start without a
// working store connection.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	// The schema must exist before AfterConnect prepares statements against
	// it, so bootstrap over a plain connection first.
	if err := ensureSchema(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers the statements the hot paths use:
// the per-minute notification scan and the per-cycle registry read.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Notification cycle: window scan, at-most-once guarded by notified
		"events_in_window": `
			SELECT event_id, provider, name, start_time, team_id, channel_id, notify_role_id, notified
			FROM ` + config.EventsTable + `
			WHERE start_time >= $1 AND start_time <= $2 AND notified = false
			ORDER BY start_time`,

		// API: upcoming events listing
		"upcoming_events": `
			SELECT event_id, provider, name, start_time, team_id, channel_id, notify_role_id, notified
			FROM ` + config.EventsTable + `
			WHERE start_time >= NOW()
			ORDER BY start_time
			LIMIT $1`,

		// Ingestion cycle: fresh registry read
		"list_team_watches": `
			SELECT provider, team_id, team_name, sport, league_slug, channel_id, notify_role_id
			FROM ` + config.TeamWatchesTable + `
			ORDER BY updated_at DESC`,
		"list_league_watches": `
			SELECT provider, league_id, league_name, sport, channel_id, notify_role_id, excluded_words
			FROM ` + config.LeagueWatchesTable + `
			ORDER BY updated_at DESC`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
