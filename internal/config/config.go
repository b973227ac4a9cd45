// Package config provides centralized configuration loaded from environment
// variables. Shared by the bot runtime and the config API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Provider names — single source of truth for adapter registration and the
// provider column on watch/event rows
// --------------------------------------------------------------------------

const (
	ProviderSportsDB = "thesportsdb"
	ProviderESPN     = "espn"
)

// --------------------------------------------------------------------------
// Table names — matches schema.sql
// --------------------------------------------------------------------------

const (
	EventsTable        = "events"
	TeamWatchesTable   = "team_watches"
	LeagueWatchesTable = "league_watches"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Discord
	DiscordToken string

	// Providers
	SportsDBAPIKey     string
	SportsDBBaseURL    string
	ESPNBaseURL        string
	ProviderTimeout    time.Duration
	ProviderRatePerMin int

	// Notification cycle
	NotifyInterval time.Duration
	NotifyWindow   time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production

	// CORS
	CORSAllowOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("POSTGRES_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or POSTGRES_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		DiscordToken: envOr("DISCORD_TOKEN", ""),

		SportsDBAPIKey:     envOr("SPORTSDB_API_KEY", "3"), // "3" is TheSportsDB's free tier key
		SportsDBBaseURL:    envOr("SPORTSDB_BASE_URL", "https://www.thesportsdb.com/api/v1/json"),
		ESPNBaseURL:        envOr("ESPN_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports"),
		ProviderTimeout:    time.Duration(envInt("PROVIDER_TIMEOUT_SECONDS", 15)) * time.Second,
		ProviderRatePerMin: envInt("PROVIDER_RATE_PER_MINUTE", 60),

		NotifyInterval: time.Duration(envInt("NOTIFY_INTERVAL_SECONDS", 60)) * time.Second,
		NotifyWindow:   time.Duration(envInt("NOTIFY_WINDOW_MINUTES", 10)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
