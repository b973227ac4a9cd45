package espn

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Sport groups the ESPN leagues the bot knows how to poll.
type Sport struct {
	ID      string
	Name    string
	Leagues []LeagueInfo
}

// LeagueInfo is a pollable ESPN league within a sport.
type LeagueInfo struct {
	Slug string
	Name string
}

// catalog mirrors the sport/league combinations ESPN exposes under the site
// API. The slug doubles as the league path segment.
var catalog = map[string]Sport{
	"football": {ID: "football", Name: "Football", Leagues: []LeagueInfo{
		{Slug: "nfl", Name: "NFL"},
		{Slug: "college-football", Name: "NCAA Football"},
		{Slug: "ufl", Name: "UFL"},
		{Slug: "cfl", Name: "CFL (Canadian)"},
	}},
	"basketball": {ID: "basketball", Name: "Basketball", Leagues: []LeagueInfo{
		{Slug: "nba", Name: "NBA"},
		{Slug: "wnba", Name: "WNBA"},
		{Slug: "mens-college-basketball", Name: "NCAA Men's Basketball"},
		{Slug: "womens-college-basketball", Name: "NCAA Women's Basketball"},
	}},
	"baseball": {ID: "baseball", Name: "Baseball", Leagues: []LeagueInfo{
		{Slug: "mlb", Name: "MLB"},
	}},
	"hockey": {ID: "hockey", Name: "Hockey", Leagues: []LeagueInfo{
		{Slug: "nhl", Name: "NHL"},
	}},
	"soccer": {ID: "soccer", Name: "Soccer", Leagues: []LeagueInfo{
		{Slug: "usa.1", Name: "MLS"},
		{Slug: "eng.1", Name: "Premier League"},
		{Slug: "esp.1", Name: "La Liga"},
		{Slug: "ger.1", Name: "Bundesliga"},
		{Slug: "ita.1", Name: "Serie A"},
		{Slug: "fra.1", Name: "Ligue 1"},
		{Slug: "uefa.champions", Name: "UEFA Champions League"},
		{Slug: "uefa.europa", Name: "UEFA Europa League"},
		{Slug: "fifa.world", Name: "FIFA World Cup"},
	}},
	"racing": {ID: "racing", Name: "Racing", Leagues: []LeagueInfo{
		{Slug: "f1", Name: "Formula 1"},
		{Slug: "irl", Name: "IndyCar"},
		{Slug: "nascar-premier", Name: "NASCAR Cup Series"},
	}},
	"mma": {ID: "mma", Name: "MMA", Leagues: []LeagueInfo{
		{Slug: "ufc", Name: "UFC"},
	}},
	"golf": {ID: "golf", Name: "Golf", Leagues: []LeagueInfo{
		{Slug: "pga", Name: "PGA Tour"},
	}},
	"tennis": {ID: "tennis", Name: "Tennis", Leagues: []LeagueInfo{
		{Slug: "atp", Name: "ATP"},
		{Slug: "wta", Name: "WTA"},
	}},
}

// Sports returns all supported sports, sorted by id.
func Sports() []Sport {
	sports := make([]Sport, 0, len(catalog))
	for _, s := range catalog {
		sports = append(sports, s)
	}
	sort.Slice(sports, func(i, j int) bool { return sports[i].ID < sports[j].ID })
	return sports
}

// Leagues returns the leagues for a sport, or nil for an unknown sport.
func Leagues(sport string) []LeagueInfo {
	s, ok := catalog[sport]
	if !ok {
		return nil
	}
	return s.Leagues
}

// ValidSportLeague reports whether the sport/league pair is pollable.
func ValidSportLeague(sport, league string) bool {
	for _, l := range Leagues(sport) {
		if l.Slug == league {
			return true
		}
	}
	return false
}

// Team is a team entry from the league teams endpoint.
type Team struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Location     string `json:"location"`
	Logo         string `json:"logo"`
}

type teamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team Team `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// Teams returns all teams for a sport/league.
func (c *Client) Teams(ctx context.Context, sport, league string) ([]Team, error) {
	var resp teamsResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%s/teams", sport, league), &resp); err != nil {
		return nil, err
	}

	var teams []Team
	for _, s := range resp.Sports {
		for _, l := range s.Leagues {
			for _, entry := range l.Teams {
				if entry.Team.ID != "" {
					teams = append(teams, entry.Team)
				}
			}
		}
	}
	return teams, nil
}

// SearchTeams filters a league's teams by a case-insensitive name match.
func (c *Client) SearchTeams(ctx context.Context, sport, league, query string) ([]Team, error) {
	teams, err := c.Teams(ctx, sport, league)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matches []Team
	for _, t := range teams {
		if strings.Contains(strings.ToLower(t.DisplayName), q) ||
			strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Abbreviation), q) ||
			strings.Contains(strings.ToLower(t.Location), q) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}
