// Package handler provides HTTP handlers for the config API: watch-target
// CRUD, upcoming-event listing, and provider search for the operator UI's
// team/league pickers. No auth — the API is expected to sit behind the
// operator's own reverse proxy.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamedaybot/gameday/internal/api/respond"
	"github.com/gamedaybot/gameday/internal/config"
	"github.com/gamedaybot/gameday/internal/provider/espn"
	"github.com/gamedaybot/gameday/internal/provider/sportsdb"
	"github.com/gamedaybot/gameday/internal/registry"
	"github.com/gamedaybot/gameday/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool     *pgxpool.Pool
	registry *registry.Registry
	events   *store.Store
	sportsdb *sportsdb.Client
	espn     *espn.Client
	logger   *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(pool *pgxpool.Pool, reg *registry.Registry, events *store.Store, sdb *sportsdb.Client, es *espn.Client, logger *slog.Logger) *Handler {
	return &Handler{
		pool:     pool,
		registry: reg,
		events:   events,
		sportsdb: sdb,
		espn:     es,
		logger:   logger,
	}
}

// --------------------------------------------------------------------------
// Health
// --------------------------------------------------------------------------

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	if err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n); err != nil {
		respond.JSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"database": "connected",
	})
}

// --------------------------------------------------------------------------
// Watch targets: teams
// --------------------------------------------------------------------------

// ListTeams returns all team watches.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.registry.ListTeams(r.Context())
	if err != nil {
		h.logger.Error("List teams failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to get teams")
		return
	}
	if teams == nil {
		teams = []registry.TeamWatch{}
	}
	respond.JSON(w, http.StatusOK, teams)
}

// CreateTeam adds a team watch.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var t registry.TeamWatch
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if t.Provider == "" {
		t.Provider = config.ProviderSportsDB
	}
	if t.TeamID == "" || t.ChannelID == "" || t.RoleID == "" {
		respond.Error(w, http.StatusBadRequest, "teamId, channelId, and notifyRoleId are required")
		return
	}
	if t.Provider == config.ProviderESPN && !espn.ValidSportLeague(t.Sport, t.LeagueSlug) {
		respond.Error(w, http.StatusBadRequest, "unknown sport/league combination")
		return
	}

	if err := h.registry.CreateTeam(r.Context(), t); err != nil {
		if errors.Is(err, registry.ErrDuplicate) {
			respond.Error(w, http.StatusConflict, "this team is already watched")
			return
		}
		h.logger.Error("Create team failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to add team")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "team": t})
}

// DeleteTeam removes a team watch by team id.
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	if err := h.registry.DeleteTeam(r.Context(), teamID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "team not found")
			return
		}
		h.logger.Error("Delete team failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete team")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --------------------------------------------------------------------------
// Watch targets: leagues
// --------------------------------------------------------------------------

// createLeagueRequest accepts excludedWords as either a JSON array or a
// comma-separated string, matching the original form-based UI.
type createLeagueRequest struct {
	registry.LeagueWatch
	ExcludedWords wordList `json:"excludedWords"`
}

type wordList []string

func (wl *wordList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*wl = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var words []string
	for _, w := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(w); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	*wl = words
	return nil
}

// ListLeagues returns all league watches.
func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.registry.ListLeagues(r.Context())
	if err != nil {
		h.logger.Error("List leagues failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to get leagues")
		return
	}
	if leagues == nil {
		leagues = []registry.LeagueWatch{}
	}
	respond.JSON(w, http.StatusOK, leagues)
}

// CreateLeague adds a league watch.
func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var req createLeagueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	l := req.LeagueWatch
	l.ExcludedWords = req.ExcludedWords
	if l.Provider == "" {
		l.Provider = config.ProviderSportsDB
	}
	if l.LeagueID == "" || l.ChannelID == "" || l.RoleID == "" {
		respond.Error(w, http.StatusBadRequest, "leagueId, channelId, and notifyRoleId are required")
		return
	}
	if l.Provider == config.ProviderESPN && !espn.ValidSportLeague(l.Sport, l.LeagueID) {
		respond.Error(w, http.StatusBadRequest, "unknown sport/league combination")
		return
	}

	if err := h.registry.CreateLeague(r.Context(), l); err != nil {
		if errors.Is(err, registry.ErrDuplicate) {
			respond.Error(w, http.StatusConflict, "this league is already watched")
			return
		}
		h.logger.Error("Create league failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to add league")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "league": l})
}

// DeleteLeague removes a league watch by league id.
func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if err := h.registry.DeleteLeague(r.Context(), leagueID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "league not found")
			return
		}
		h.logger.Error("Delete league failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete league")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --------------------------------------------------------------------------
// Events
// --------------------------------------------------------------------------

// ListEvents returns upcoming stored events for the dashboard.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.events.Upcoming(r.Context(), limit)
	if err != nil {
		h.logger.Error("List events failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to get events")
		return
	}

	out := make([]map[string]interface{}, 0, len(events))
	for _, ev := range events {
		out = append(out, map[string]interface{}{
			"eventId":   ev.ExternalID,
			"provider":  ev.Provider,
			"name":      ev.Name,
			"startTime": ev.StartTime.UTC().Format(time.RFC3339),
			"channelId": ev.ChannelID,
			"notified":  ev.Notified,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
