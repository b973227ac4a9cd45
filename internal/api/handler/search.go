package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gamedaybot/gameday/internal/api/respond"
	"github.com/gamedaybot/gameday/internal/provider/espn"
	"github.com/gamedaybot/gameday/internal/provider/sportsdb"
)

// --------------------------------------------------------------------------
// TheSportsDB search (backs the team/league pickers)
// --------------------------------------------------------------------------

// SearchSportsDBTeams proxies a team name search to TheSportsDB.
func (h *Handler) SearchSportsDBTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respond.Error(w, http.StatusBadRequest, "search query is required")
		return
	}

	teams, err := h.sportsdb.SearchTeams(r.Context(), query)
	if err != nil {
		h.logger.Warn("SportsDB team search failed", "query", query, "error", err)
		respond.Error(w, http.StatusBadGateway, "failed to search teams")
		return
	}
	if teams == nil {
		teams = []sportsdb.Team{}
	}
	respond.JSON(w, http.StatusOK, teams)
}

// SearchSportsDBLeagues proxies a league name search to TheSportsDB.
func (h *Handler) SearchSportsDBLeagues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respond.Error(w, http.StatusBadRequest, "search query is required")
		return
	}

	leagues, err := h.sportsdb.SearchLeagues(r.Context(), query)
	if err != nil {
		h.logger.Warn("SportsDB league search failed", "query", query, "error", err)
		respond.Error(w, http.StatusBadGateway, "failed to search leagues")
		return
	}
	if leagues == nil {
		leagues = []sportsdb.League{}
	}
	respond.JSON(w, http.StatusOK, leagues)
}

// --------------------------------------------------------------------------
// ESPN catalog + team search
// --------------------------------------------------------------------------

// ListESPNSports returns the supported ESPN sports.
func (h *Handler) ListESPNSports(w http.ResponseWriter, r *http.Request) {
	sports := espn.Sports()
	out := make([]map[string]string, 0, len(sports))
	for _, s := range sports {
		out = append(out, map[string]string{"id": s.ID, "name": s.Name})
	}
	respond.JSON(w, http.StatusOK, out)
}

// ListESPNLeagues returns the leagues for an ESPN sport.
func (h *Handler) ListESPNLeagues(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	leagues := espn.Leagues(sport)
	if leagues == nil {
		respond.Error(w, http.StatusNotFound, "unknown sport")
		return
	}
	respond.JSON(w, http.StatusOK, leagues)
}

// SearchESPNTeams returns an ESPN league's teams, filtered by an optional
// name query.
func (h *Handler) SearchESPNTeams(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	league := chi.URLParam(r, "league")
	if !espn.ValidSportLeague(sport, league) {
		respond.Error(w, http.StatusNotFound, "unknown sport/league combination")
		return
	}

	query := r.URL.Query().Get("q")

	var (
		teams []espn.Team
		err   error
	)
	if query == "" {
		teams, err = h.espn.Teams(r.Context(), sport, league)
	} else {
		teams, err = h.espn.SearchTeams(r.Context(), sport, league, query)
	}
	if err != nil {
		h.logger.Warn("ESPN team search failed", "sport", sport, "league", league, "error", err)
		respond.Error(w, http.StatusBadGateway, "failed to search teams")
		return
	}
	if teams == nil {
		teams = []espn.Team{}
	}
	respond.JSON(w, http.StatusOK, teams)
}
