// Package api wires the config API's router: watch-target CRUD, event
// listing, and provider search for the operator UI.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"

	"github.com/gamedaybot/gameday/internal/api/handler"
	"github.com/gamedaybot/gameday/internal/config"
	"github.com/gamedaybot/gameday/internal/provider/espn"
	"github.com/gamedaybot/gameday/internal/provider/sportsdb"
	"github.com/gamedaybot/gameday/internal/registry"
	"github.com/gamedaybot/gameday/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes.
func NewRouter(
	pool *pgxpool.Pool,
	reg *registry.Registry,
	events *store.Store,
	sdb *sportsdb.Client,
	es *espn.Client,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// --- Handler dependencies ---
	h := handler.New(pool, reg, events, sdb, es, logger)

	// --- Routes ---

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Watch targets
		r.Get("/teams", h.ListTeams)
		r.Post("/teams", h.CreateTeam)
		r.Delete("/teams/{teamID}", h.DeleteTeam)
		r.Get("/leagues", h.ListLeagues)
		r.Post("/leagues", h.CreateLeague)
		r.Delete("/leagues/{leagueID}", h.DeleteLeague)

		// Stored events
		r.Get("/events", h.ListEvents)

		// Provider search for the team/league pickers
		r.Get("/sportsdb/search/teams", h.SearchSportsDBTeams)
		r.Get("/sportsdb/search/leagues", h.SearchSportsDBLeagues)
		r.Get("/espn/sports", h.ListESPNSports)
		r.Get("/espn/{sport}/leagues", h.ListESPNLeagues)
		r.Get("/espn/{sport}/{league}/teams", h.SearchESPNTeams)
	})

	return r
}
