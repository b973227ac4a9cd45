package sportsdb

import (
	"context"
	"net/url"
	"time"

	"github.com/gamedaybot/gameday/internal/config"
	"github.com/gamedaybot/gameday/internal/provider"
)

// eventTimeLayout matches TheSportsDB's split date/time fields once joined:
// dateEvent "2023-05-25" + strTime "19:30:00". The API carries no timezone
// marker but documents the values as UTC, so the combination is parsed in
// UTC explicitly — never local time.
const eventTimeLayout = "2006-01-02 15:04:05"

// defaultEventTime fills in for events where strTime is absent (common for
// far-future fixtures).
const defaultEventTime = "00:00:00"

// rawEvent is the subset of TheSportsDB event fields the adapter reads.
type rawEvent struct {
	IDEvent   string `json:"idEvent"`
	StrEvent  string `json:"strEvent"`
	DateEvent string `json:"dateEvent"` // YYYY-MM-DD
	StrTime   string `json:"strTime"`   // HH:MM:SS, may be empty
}

// eventsResponse wraps both eventsnext.php and eventsnextleague.php. The
// API returns `"events": null` when there are no upcoming events.
type eventsResponse struct {
	Events []rawEvent `json:"events"`
}

// Name implements provider.Adapter.
func (c *Client) Name() string { return config.ProviderSportsDB }

// FetchTeamEvents returns upcoming events for a team via eventsnext.php.
func (c *Client) FetchTeamEvents(ctx context.Context, q provider.TeamQuery) ([]provider.Event, error) {
	return c.fetchEvents(ctx, "eventsnext.php", "team_events", q.TeamID)
}

// FetchLeagueEvents returns upcoming events for a league via
// eventsnextleague.php.
func (c *Client) FetchLeagueEvents(ctx context.Context, q provider.LeagueQuery) ([]provider.Event, error) {
	return c.fetchEvents(ctx, "eventsnextleague.php", "league_events", q.LeagueID)
}

func (c *Client) fetchEvents(ctx context.Context, endpoint, op, key string) ([]provider.Event, error) {
	params := url.Values{}
	params.Set("id", key)

	var resp eventsResponse
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, &provider.FetchError{Provider: c.Name(), Op: op, Key: key, Err: err}
	}

	events := make([]provider.Event, 0, len(resp.Events))
	for _, raw := range resp.Events {
		ev, ok := c.normalize(raw)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// normalize converts a raw API event into the fixed provider.Event shape.
// Events missing an id, name, or date are skipped; the rest of the response
// is still processed.
func (c *Client) normalize(raw rawEvent) (provider.Event, bool) {
	if raw.IDEvent == "" || raw.StrEvent == "" || raw.DateEvent == "" {
		c.logger.Warn("Skipping malformed event",
			"provider", c.Name(), "id", raw.IDEvent, "name", raw.StrEvent, "date", raw.DateEvent)
		return provider.Event{}, false
	}

	eventTime := raw.StrTime
	if eventTime == "" {
		eventTime = defaultEventTime
	}

	start, err := time.ParseInLocation(eventTimeLayout, raw.DateEvent+" "+eventTime, time.UTC)
	if err != nil {
		c.logger.Warn("Skipping event with unparseable start time",
			"provider", c.Name(), "id", raw.IDEvent, "date", raw.DateEvent, "time", raw.StrTime, "error", err)
		return provider.Event{}, false
	}

	return provider.Event{
		ExternalID: raw.IDEvent,
		Name:       raw.StrEvent,
		StartTime:  start,
	}, true
}
