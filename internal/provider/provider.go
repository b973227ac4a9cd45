// Package provider defines the normalized contract every sports-data
// adapter satisfies. Adapters translate provider-native payloads into the
// fixed Event shape; raw provider objects never leave an adapter.
package provider

import (
	"context"
	"fmt"
	"time"
)

// Event is a normalized upcoming event as returned by an adapter, before it
// is merged with a watch target's destination binding. StartTime is always
// UTC.
type Event struct {
	ExternalID string
	Name       string
	StartTime  time.Time
}

// TeamQuery identifies a team for an upcoming-events fetch. Sport and
// League are only meaningful for providers that scope teams by league
// (ESPN); TheSportsDB ignores them.
type TeamQuery struct {
	Sport  string
	League string
	TeamID string
}

// LeagueQuery identifies a league for an upcoming-events fetch.
type LeagueQuery struct {
	Sport    string
	LeagueID string
}

// Adapter is the capability every provider integration implements. A nil
// error with an empty slice means "no upcoming events"; a fetch failure is
// always a non-nil error so callers can tell the two apart.
type Adapter interface {
	Name() string
	FetchTeamEvents(ctx context.Context, q TeamQuery) ([]Event, error)
	FetchLeagueEvents(ctx context.Context, q LeagueQuery) ([]Event, error)
}

// FetchError wraps a failed provider request with enough context for
// per-target logging.
type FetchError struct {
	Provider string
	Op       string // "team_events", "league_events", ...
	Key      string // team or league external key
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Provider, e.Op, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
