package espn

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamedaybot/gameday/internal/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, 600, slog.Default())
}

func TestFetchTeamEvents_KeepsOnlyUpcoming(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/basketball/nba/teams/13/schedule", r.URL.Path)
		w.Write([]byte(`{"events": [
			{"id": "old", "name": "Past Game", "date": "2024-01-10T19:30Z"},
			{"id": "401500", "name": "Lakers at Celtics", "date": "2024-01-20T00:00Z"}
		]}`))
	})
	client.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }

	events, err := client.FetchTeamEvents(context.Background(), provider.TeamQuery{
		Sport: "basketball", League: "nba", TeamID: "13",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "401500", events[0].ExternalID)
	assert.True(t, events[0].StartTime.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
}

func TestFetchLeagueEvents_ScoreboardPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/soccer/eng.1/scoreboard", r.URL.Path)
		w.Write([]byte(`{"events": [
			{"id": "606000", "name": "Arsenal at Chelsea", "date": "2024-01-16T15:00Z"},
			{"id": "", "name": "Missing ID", "date": "2024-01-16T15:00Z"}
		]}`))
	})
	client.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }

	events, err := client.FetchLeagueEvents(context.Background(), provider.LeagueQuery{
		Sport: "soccer", LeagueID: "eng.1",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "606000", events[0].ExternalID)
}

func TestFetchLeagueEvents_HTTPErrorIsTypedFetchError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchLeagueEvents(context.Background(), provider.LeagueQuery{
		Sport: "football", LeagueID: "nfl",
	})
	require.Error(t, err)

	var fetchErr *provider.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "espn", fetchErr.Provider)
	assert.Equal(t, "nfl", fetchErr.Key)
}

func TestParseEventTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"no seconds", "2024-01-15T19:30Z", time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC), true},
		{"rfc3339", "2024-01-15T19:30:00Z", time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC), true},
		{"offset", "2024-01-15T14:30-05:00", time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC), true},
		{"garbage", "tomorrow", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEventTime(tt.input)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.UTC().Equal(tt.want), "got %s", got)
		})
	}
}

func TestCatalog(t *testing.T) {
	assert.True(t, ValidSportLeague("basketball", "nba"))
	assert.True(t, ValidSportLeague("soccer", "eng.1"))
	assert.False(t, ValidSportLeague("basketball", "nfl"))
	assert.False(t, ValidSportLeague("curling", "nba"))
	assert.Nil(t, Leagues("curling"))
	assert.NotEmpty(t, Sports())
}
