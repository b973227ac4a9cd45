package sportsdb

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
	return NewClient(server.URL, "testkey", 5*time.Second, 600, slog.Default())
}

func TestFetchTeamEvents_ParsesTimesAsUTC(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/testkey/eventsnext.php", r.URL.Path)
		assert.Equal(t, "134153", r.URL.Query().Get("id"))
		w.Write([]byte(`{"events": [
			{"idEvent": "E1", "strEvent": "Lakers vs Celtics", "dateEvent": "2024-01-15", "strTime": "19:30:00"}
		]}`))
	})

	events, err := client.FetchTeamEvents(context.Background(), provider.TeamQuery{TeamID: "134153"})
	require.NoError(t, err)
	require.Len(t, events, 1)

	// The provider sends no timezone marker; the combination must be read
	// as UTC, never shifted by the local offset.
	want := time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, "E1", events[0].ExternalID)
	assert.Equal(t, "Lakers vs Celtics", events[0].Name)
	assert.True(t, events[0].StartTime.Equal(want), "got %s", events[0].StartTime)
}

func TestFetchTeamEvents_MissingTimeDefaultsToMidnight(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": [
			{"idEvent": "E2", "strEvent": "Cup Final", "dateEvent": "2024-03-01"}
		]}`))
	})

	events, err := client.FetchTeamEvents(context.Background(), provider.TeamQuery{TeamID: "1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].StartTime.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFetchLeagueEvents_SkipsMalformedEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/testkey/eventsnextleague.php", r.URL.Path)
		w.Write([]byte(`{"events": [
			{"idEvent": "", "strEvent": "No ID", "dateEvent": "2024-01-15"},
			{"idEvent": "E3", "strEvent": "", "dateEvent": "2024-01-15"},
			{"idEvent": "E4", "strEvent": "Bad Date", "dateEvent": "15/01/2024"},
			{"idEvent": "E5", "strEvent": "Good Game", "dateEvent": "2024-01-15", "strTime": "12:00:00"}
		]}`))
	})

	events, err := client.FetchLeagueEvents(context.Background(), provider.LeagueQuery{LeagueID: "4328"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "E5", events[0].ExternalID)
}

func TestFetchLeagueEvents_NullEventsMeansNoUpcoming(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": null}`))
	})

	events, err := client.FetchLeagueEvents(context.Background(), provider.LeagueQuery{LeagueID: "4328"})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFetchTeamEvents_HTTPErrorIsTypedFetchError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.FetchTeamEvents(context.Background(), provider.TeamQuery{TeamID: "134153"})
	require.Error(t, err)

	var fetchErr *provider.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "thesportsdb", fetchErr.Provider)
	assert.Equal(t, "team_events", fetchErr.Op)
	assert.Equal(t, "134153", fetchErr.Key)
}

func TestSearchTeams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/testkey/searchteams.php", r.URL.Path)
		assert.Equal(t, "Arsenal", r.URL.Query().Get("t"))
		w.Write([]byte(`{"teams": [
			{"idTeam": "133604", "strTeam": "Arsenal", "strSport": "Soccer", "strLeague": "English Premier League"}
		]}`))
	})

	teams, err := client.SearchTeams(context.Background(), "Arsenal")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "133604", teams[0].ID)
	assert.Equal(t, "Arsenal", teams[0].Name)
}
