package espn

import (
	"context"
	"fmt"
	"time"

	"github.com/gamedaybot/gameday/internal/config"
	"github.com/gamedaybot/gameday/internal/provider"
)

// ESPN renders event dates as zoned ISO strings, usually without seconds
// ("2024-01-15T19:30Z").
var eventTimeLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

// rawEvent is the subset of ESPN event fields the adapter reads. Both the
// scoreboard and team-schedule endpoints use this shape.
type rawEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

type scoreboardResponse struct {
	Events []rawEvent `json:"events"`
}

type scheduleResponse struct {
	Events []rawEvent `json:"events"`
}

// Name implements provider.Adapter.
func (c *Client) Name() string { return config.ProviderESPN }

// FetchTeamEvents returns upcoming events from a team's schedule endpoint.
// The schedule includes past games; only events at or after "now" are kept.
func (c *Client) FetchTeamEvents(ctx context.Context, q provider.TeamQuery) ([]provider.Event, error) {
	path := fmt.Sprintf("/%s/%s/teams/%s/schedule", q.Sport, q.League, q.TeamID)

	var resp scheduleResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, &provider.FetchError{Provider: c.Name(), Op: "team_events", Key: q.TeamID, Err: err}
	}
	return c.normalizeUpcoming(resp.Events), nil
}

// FetchLeagueEvents returns upcoming events from a league's scoreboard. For
// ESPN the league external key is the league slug (nfl, nba, eng.1, ...).
func (c *Client) FetchLeagueEvents(ctx context.Context, q provider.LeagueQuery) ([]provider.Event, error) {
	path := fmt.Sprintf("/%s/%s/scoreboard", q.Sport, q.LeagueID)

	var resp scoreboardResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, &provider.FetchError{Provider: c.Name(), Op: "league_events", Key: q.LeagueID, Err: err}
	}
	return c.normalizeUpcoming(resp.Events), nil
}

// normalizeUpcoming converts raw events to the fixed shape, dropping
// malformed entries and events that have already started.
func (c *Client) normalizeUpcoming(raw []rawEvent) []provider.Event {
	now := c.now()
	events := make([]provider.Event, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" || r.Name == "" || r.Date == "" {
			c.logger.Warn("Skipping malformed event",
				"provider", c.Name(), "id", r.ID, "name", r.Name, "date", r.Date)
			continue
		}

		start, err := parseEventTime(r.Date)
		if err != nil {
			c.logger.Warn("Skipping event with unparseable start time",
				"provider", c.Name(), "id", r.ID, "date", r.Date, "error", err)
			continue
		}
		if start.Before(now) {
			continue
		}

		events = append(events, provider.Event{
			ExternalID: r.ID,
			Name:       r.Name,
			StartTime:  start.UTC(),
		})
	}
	return events
}

func parseEventTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range eventTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
