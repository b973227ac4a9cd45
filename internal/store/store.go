// Package store persists ingested events. One row per provider event id;
// re-ingestion refreshes every field except notified, which only ever moves
// false -> true.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamedaybot/gameday/internal/config"
)

// Event is a stored upcoming event merged with its watch binding.
type Event struct {
	ExternalID string
	Provider   string
	Name       string
	StartTime  time.Time // UTC
	TeamID     string    // originating team watch, empty for league events
	ChannelID  string
	RoleID     string
	Notified   bool
}

// MarkResult is the outcome of MarkNotified.
type MarkResult int

const (
	Marked MarkResult = iota
	AlreadyMarked
	NotFound
)

// Store is the Postgres-backed event store.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Upsert inserts or refreshes an event keyed by its external id. The
// notified column is deliberately absent from the update list so a re-ingest
// can never reset it.
func (s *Store) Upsert(ctx context.Context, ev Event) error {
	var teamID interface{}
	if ev.TeamID != "" {
		teamID = ev.TeamID
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.EventsTable+` (
			event_id, provider, name, start_time, team_id, channel_id, notify_role_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (event_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			name = EXCLUDED.name,
			start_time = EXCLUDED.start_time,
			team_id = EXCLUDED.team_id,
			channel_id = EXCLUDED.channel_id,
			notify_role_id = EXCLUDED.notify_role_id,
			updated_at = NOW()`,
		ev.ExternalID, ev.Provider, ev.Name, ev.StartTime.UTC(),
		teamID, ev.ChannelID, ev.RoleID,
	)
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", ev.ExternalID, err)
	}
	return nil
}

// QueryWindow returns unnotified events whose start time falls inside
// [start, end], ordered by start time.
func (s *Store) QueryWindow(ctx context.Context, start, end time.Time) ([]Event, error) {
	rows, err := s.pool.Query(ctx, "events_in_window", start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query events in window: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Upcoming returns the next events by start time, notified or not. Backs
// the config API's dashboard listing.
func (s *Store) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, "upcoming_events", limit)
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// MarkNotified flips notified to true for a single event. The conditional
// update is the at-most-once backstop: a second caller sees AlreadyMarked
// instead of affecting the row again.
func (s *Store) MarkNotified(ctx context.Context, externalID string) (MarkResult, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE `+config.EventsTable+`
		SET notified = true, updated_at = NOW()
		WHERE event_id = $1 AND notified = false`,
		externalID,
	)
	if err != nil {
		return NotFound, fmt.Errorf("mark notified %s: %w", externalID, err)
	}
	if tag.RowsAffected() > 0 {
		return Marked, nil
	}

	// No row updated: either already notified or unknown id.
	var exists bool
	err = s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+config.EventsTable+" WHERE event_id = $1)",
		externalID,
	).Scan(&exists)
	if err != nil {
		return NotFound, fmt.Errorf("check event %s: %w", externalID, err)
	}
	if exists {
		return AlreadyMarked, nil
	}
	return NotFound, nil
}

func scanEvents(rows pgx.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var ev Event
		var teamID *string
		if err := rows.Scan(
			&ev.ExternalID, &ev.Provider, &ev.Name, &ev.StartTime,
			&teamID, &ev.ChannelID, &ev.RoleID, &ev.Notified,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if teamID != nil {
			ev.TeamID = *teamID
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
