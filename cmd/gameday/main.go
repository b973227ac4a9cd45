// Command gameday runs the sports event notification bot and its config API.
//
// Usage:
//
//	gameday run            # bot: ingestion scheduler + notification worker
//	gameday run --with-api # bot plus the config API in one process
//	gameday api            # config API only
//	gameday ingest         # one ingestion cycle, then exit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gamedaybot/gameday/internal/api"
	"github.com/gamedaybot/gameday/internal/config"
	"github.com/gamedaybot/gameday/internal/db"
	"github.com/gamedaybot/gameday/internal/discord"
	"github.com/gamedaybot/gameday/internal/ingest"
	"github.com/gamedaybot/gameday/internal/notify"
	"github.com/gamedaybot/gameday/internal/provider"
	"github.com/gamedaybot/gameday/internal/provider/espn"
	"github.com/gamedaybot/gameday/internal/provider/sportsdb"
	"github.com/gamedaybot/gameday/internal/registry"
	"github.com/gamedaybot/gameday/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "gameday",
		Short: "Sports event notification bot",
	}

	root.AddCommand(runCmd())
	root.AddCommand(apiCmd())
	root.AddCommand(ingestCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	var withAPI bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the notification bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *app) error {
				// Discord sink; without a token the bot still ingests, it
				// just never sends.
				sink, err := discord.NewSink(app.cfg.DiscordToken, logger)
				if err != nil {
					return fmt.Errorf("create discord sink: %w", err)
				}
				if sink != nil {
					if err := sink.Open(); err != nil {
						return err
					}
					defer sink.Close()

					worker := notify.NewWorker(app.events, sink,
						app.cfg.NotifyInterval, app.cfg.NotifyWindow, logger)
					go worker.Start(ctx)
				} else {
					logger.Warn("Notification worker disabled (no DISCORD_TOKEN)")
				}

				// Daily ingestion plus immediate re-ingest on config edits.
				go ingest.StartScheduler(ctx, app.cycle, logger)
				go ingest.StartListener(ctx, app.cfg.DatabaseURL, app.cycle, logger)

				if withAPI {
					go serveAPI(ctx, app)
				}

				<-ctx.Done()
				logger.Info("Shutting down...")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withAPI, "with-api", false, "Also serve the config API")
	return cmd
}

// --------------------------------------------------------------------------
// api command
// --------------------------------------------------------------------------

func apiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run the config API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *app) error {
				serveAPI(ctx, app)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// ingest command
// --------------------------------------------------------------------------

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *app) error {
				result := app.cycle.Run(ctx)
				for _, e := range result.Errors {
					logger.Error("ingest error", "error", e)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// app bundles the long-lived dependencies every command needs.
type app struct {
	cfg      *config.Config
	pool     *db.Pool
	registry *registry.Registry
	events   *store.Store
	sdb      *sportsdb.Client
	espn     *espn.Client
	cycle    *ingest.Cycle
}

// withApp handles config loading, DB connection, and context cancellation.
// The store connection is fail-fatal: nothing is scheduled without it.
func withApp(fn func(ctx context.Context, app *app) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	sdb := sportsdb.NewClient(cfg.SportsDBBaseURL, cfg.SportsDBAPIKey,
		cfg.ProviderTimeout, cfg.ProviderRatePerMin, logger)
	es := espn.NewClient(cfg.ESPNBaseURL,
		cfg.ProviderTimeout, cfg.ProviderRatePerMin, logger)

	reg := registry.New(pool.Pool)
	events := store.New(pool.Pool)

	adapters := map[string]provider.Adapter{
		sdb.Name(): sdb,
		es.Name():  es,
	}
	cycle := ingest.New(reg, events, adapters, cfg.ProviderTimeout, logger)

	return fn(ctx, &app{
		cfg:      cfg,
		pool:     pool,
		registry: reg,
		events:   events,
		sdb:      sdb,
		espn:     es,
		cycle:    cycle,
	})
}

// serveAPI runs the config API server until ctx is cancelled, then shuts it
// down gracefully.
func serveAPI(ctx context.Context, app *app) {
	router := api.NewRouter(app.pool.Pool, app.registry, app.events, app.sdb, app.espn, app.cfg, logger)

	addr := fmt.Sprintf("%s:%d", app.cfg.APIHost, app.cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting config API", "addr", addr, "environment", app.cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("API shutdown error", "error", err)
	}
	logger.Info("API server stopped")
}
