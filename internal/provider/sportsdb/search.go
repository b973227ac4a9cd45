package sportsdb

import (
	"context"
	"net/url"
)

// Team is a search result from searchteams.php.
type Team struct {
	ID     string `json:"idTeam"`
	Name   string `json:"strTeam"`
	Sport  string `json:"strSport"`
	League string `json:"strLeague"`
	Badge  string `json:"strBadge"`
}

// League is a search result from search_all_leagues.php.
type League struct {
	ID    string `json:"idLeague"`
	Name  string `json:"strLeague"`
	Sport string `json:"strSport"`
	Badge string `json:"strBadge"`
}

type teamsResponse struct {
	Teams []Team `json:"teams"`
}

type leaguesResponse struct {
	// search_all_leagues.php returns its matches under "countries".
	Countries []League `json:"countries"`
	Leagues   []League `json:"leagues"`
}

// SearchTeams looks up teams by name. Backs the config API's team picker.
func (c *Client) SearchTeams(ctx context.Context, query string) ([]Team, error) {
	params := url.Values{}
	params.Set("t", query)

	var resp teamsResponse
	if err := c.get(ctx, "searchteams.php", params, &resp); err != nil {
		return nil, err
	}
	return resp.Teams, nil
}

// SearchLeagues looks up leagues by name.
func (c *Client) SearchLeagues(ctx context.Context, query string) ([]League, error) {
	params := url.Values{}
	params.Set("l", query)

	var resp leaguesResponse
	if err := c.get(ctx, "search_all_leagues.php", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Countries) > 0 {
		return resp.Countries, nil
	}
	return resp.Leagues, nil
}
