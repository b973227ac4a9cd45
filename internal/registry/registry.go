// Package registry holds the configured watch targets: teams and leagues an
// operator wants notifications for. The ingestion cycle reads it fresh at
// the top of every run — watch targets are never cached as process state, so
// operator edits take effect without a restart.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamedaybot/gameday/internal/config"
)

// Channel used with pg_notify to signal watch-target changes to the running
// bot process.
const ChangeChannel = "watch_changed"

var (
	// ErrDuplicate is returned when a watch with the same identity exists.
	ErrDuplicate = errors.New("watch target already exists")
	// ErrNotFound is returned when deleting a watch that does not exist.
	ErrNotFound = errors.New("watch target not found")
)

// TeamWatch is a configured team to poll for upcoming events. Sport and
// LeagueSlug are only set for providers that scope teams by league (ESPN).
type TeamWatch struct {
	Provider   string `json:"provider"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	Sport      string `json:"sport,omitempty"`
	LeagueSlug string `json:"leagueSlug,omitempty"`
	ChannelID  string `json:"channelId"`
	RoleID     string `json:"notifyRoleId"`
}

// LeagueWatch is a configured league to poll. Events whose name contains
// any excluded word (case-insensitive substring) are dropped at ingestion.
type LeagueWatch struct {
	Provider      string   `json:"provider"`
	LeagueID      string   `json:"leagueId"`
	LeagueName    string   `json:"leagueName"`
	Sport         string   `json:"sport,omitempty"`
	ChannelID     string   `json:"channelId"`
	RoleID        string   `json:"notifyRoleId"`
	ExcludedWords []string `json:"excludedWords"`
}

// Registry is the Postgres-backed watch target collection.
type Registry struct {
	pool *pgxpool.Pool
}

// New creates a Registry on an existing pool.
func New(pool *pgxpool.Pool) *Registry {
	return &Registry{pool: pool}
}

// List returns all configured watch targets, most recently updated first.
func (r *Registry) List(ctx context.Context) ([]TeamWatch, []LeagueWatch, error) {
	teams, err := r.ListTeams(ctx)
	if err != nil {
		return nil, nil, err
	}
	leagues, err := r.ListLeagues(ctx)
	if err != nil {
		return nil, nil, err
	}
	return teams, leagues, nil
}

// ListTeams returns all team watches.
func (r *Registry) ListTeams(ctx context.Context) ([]TeamWatch, error) {
	rows, err := r.pool.Query(ctx, "list_team_watches")
	if err != nil {
		return nil, fmt.Errorf("list team watches: %w", err)
	}
	defer rows.Close()

	var teams []TeamWatch
	for rows.Next() {
		var t TeamWatch
		if err := rows.Scan(&t.Provider, &t.TeamID, &t.TeamName, &t.Sport,
			&t.LeagueSlug, &t.ChannelID, &t.RoleID); err != nil {
			return nil, fmt.Errorf("scan team watch: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ListLeagues returns all league watches.
func (r *Registry) ListLeagues(ctx context.Context) ([]LeagueWatch, error) {
	rows, err := r.pool.Query(ctx, "list_league_watches")
	if err != nil {
		return nil, fmt.Errorf("list league watches: %w", err)
	}
	defer rows.Close()

	var leagues []LeagueWatch
	for rows.Next() {
		var l LeagueWatch
		if err := rows.Scan(&l.Provider, &l.LeagueID, &l.LeagueName, &l.Sport,
			&l.ChannelID, &l.RoleID, &l.ExcludedWords); err != nil {
			return nil, fmt.Errorf("scan league watch: %w", err)
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

// CreateTeam adds a team watch. Returns ErrDuplicate if the same team is
// already watched.
func (r *Registry) CreateTeam(ctx context.Context, t TeamWatch) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO `+config.TeamWatchesTable+` (
			provider, team_id, team_name, sport, league_slug, channel_id, notify_role_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.Provider, t.TeamID, t.TeamName, t.Sport, t.LeagueSlug, t.ChannelID, t.RoleID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create team watch: %w", err)
	}
	r.notifyChanged(ctx)
	return nil
}

// CreateLeague adds a league watch. Returns ErrDuplicate if the same league
// is already watched.
func (r *Registry) CreateLeague(ctx context.Context, l LeagueWatch) error {
	if l.ExcludedWords == nil {
		l.ExcludedWords = []string{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO `+config.LeagueWatchesTable+` (
			provider, league_id, league_name, sport, channel_id, notify_role_id, excluded_words
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.Provider, l.LeagueID, l.LeagueName, l.Sport, l.ChannelID, l.RoleID, l.ExcludedWords,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create league watch: %w", err)
	}
	r.notifyChanged(ctx)
	return nil
}

// DeleteTeam removes a team watch by team id.
func (r *Registry) DeleteTeam(ctx context.Context, teamID string) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM "+config.TeamWatchesTable+" WHERE team_id = $1", teamID)
	if err != nil {
		return fmt.Errorf("delete team watch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.notifyChanged(ctx)
	return nil
}

// DeleteLeague removes a league watch by league id.
func (r *Registry) DeleteLeague(ctx context.Context, leagueID string) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM "+config.LeagueWatchesTable+" WHERE league_id = $1", leagueID)
	if err != nil {
		return fmt.Errorf("delete league watch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.notifyChanged(ctx)
	return nil
}

// notifyChanged fires a pg_notify so a running bot can ingest the change
// immediately instead of waiting for the next daily cycle. Best-effort: the
// change is durable either way.
func (r *Registry) notifyChanged(ctx context.Context) {
	_, _ = r.pool.Exec(ctx, "SELECT pg_notify($1, '')", ChangeChannel)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
