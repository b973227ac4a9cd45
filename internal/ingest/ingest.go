package ingest

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gamedaybot/gameday/internal/provider"
	"github.com/gamedaybot/gameday/internal/registry"
	"github.com/gamedaybot/gameday/internal/store"
)

// Registry is the watch-target read the cycle performs fresh at the top of
// every run.
type Registry interface {
	List(ctx context.Context) ([]registry.TeamWatch, []registry.LeagueWatch, error)
}

// EventStore is the idempotent upsert the cycle writes through.
type EventStore interface {
	Upsert(ctx context.Context, ev store.Event) error
}

// Cycle ingests upcoming events for every configured watch target.
type Cycle struct {
	registry     Registry
	store        EventStore
	adapters     map[string]provider.Adapter
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// New creates an ingestion cycle. Adapters are keyed by provider name.
func New(reg Registry, st EventStore, adapters map[string]provider.Adapter, fetchTimeout time.Duration, logger *slog.Logger) *Cycle {
	if logger == nil {
		logger = slog.Default()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &Cycle{
		registry:     reg,
		store:        st,
		adapters:     adapters,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Run executes one full ingestion cycle. All target fetches run
// concurrently; a single target's failure is logged and counted but never
// aborts its siblings or the cycle. The cycle itself never fails — registry
// read errors produce an empty run with the error recorded.
func (c *Cycle) Run(ctx context.Context) *Result {
	start := time.Now()
	result := &Result{}

	teams, leagues, err := c.registry.List(ctx)
	if err != nil {
		c.logger.Error("Failed to read watch registry", "error", err)
		result.AddErrorf("read watch registry: %v", err)
		result.Duration = time.Since(start)
		return result
	}

	result.TargetsTotal = len(teams) + len(leagues)
	if result.TargetsTotal == 0 {
		c.logger.Info("No watch targets configured")
		result.Duration = time.Since(start)
		return result
	}

	c.logger.Info("Ingestion cycle started", "teams", len(teams), "leagues", len(leagues))

	var wg sync.WaitGroup
	for _, t := range teams {
		wg.Add(1)
		go func(t registry.TeamWatch) {
			defer wg.Done()
			c.ingestTeam(ctx, t, result)
		}(t)
	}
	for _, l := range leagues {
		wg.Add(1)
		go func(l registry.LeagueWatch) {
			defer wg.Done()
			c.ingestLeague(ctx, l, result)
		}(l)
	}
	wg.Wait()

	result.Duration = time.Since(start)
	c.logger.Info("Ingestion cycle complete", "summary", result.Summary())
	return result
}

func (c *Cycle) ingestTeam(ctx context.Context, t registry.TeamWatch, result *Result) {
	adapter, ok := c.adapters[t.Provider]
	if !ok {
		c.logger.Warn("No adapter for provider", "provider", t.Provider, "team_id", t.TeamID)
		result.AddErrorf("team %s: unknown provider %q", t.TeamID, t.Provider)
		result.mu.Lock()
		result.TargetsFailed++
		result.mu.Unlock()
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	events, err := adapter.FetchTeamEvents(fetchCtx, provider.TeamQuery{
		Sport:  t.Sport,
		League: t.LeagueSlug,
		TeamID: t.TeamID,
	})
	if err != nil {
		// Treated as zero events for this target; the next cycle retries.
		c.logger.Warn("Team fetch failed", "provider", t.Provider, "team_id", t.TeamID, "error", err)
		result.AddErrorf("team %s: %v", t.TeamID, err)
		result.mu.Lock()
		result.TargetsFailed++
		result.mu.Unlock()
		return
	}

	c.upsertEvents(ctx, events, t.TeamID, t.ChannelID, t.RoleID, adapter.Name(), result)
}

func (c *Cycle) ingestLeague(ctx context.Context, l registry.LeagueWatch, result *Result) {
	adapter, ok := c.adapters[l.Provider]
	if !ok {
		c.logger.Warn("No adapter for provider", "provider", l.Provider, "league_id", l.LeagueID)
		result.AddErrorf("league %s: unknown provider %q", l.LeagueID, l.Provider)
		result.mu.Lock()
		result.TargetsFailed++
		result.mu.Unlock()
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	events, err := adapter.FetchLeagueEvents(fetchCtx, provider.LeagueQuery{
		Sport:    l.Sport,
		LeagueID: l.LeagueID,
	})
	if err != nil {
		c.logger.Warn("League fetch failed", "provider", l.Provider, "league_id", l.LeagueID, "error", err)
		result.AddErrorf("league %s: %v", l.LeagueID, err)
		result.mu.Lock()
		result.TargetsFailed++
		result.mu.Unlock()
		return
	}

	kept := events[:0]
	for _, ev := range events {
		if word, excluded := matchExcluded(ev.Name, l.ExcludedWords); excluded {
			c.logger.Info("Excluded event", "league_id", l.LeagueID, "event", ev.Name, "word", word)
			result.mu.Lock()
			result.EventsExcluded++
			result.mu.Unlock()
			continue
		}
		kept = append(kept, ev)
	}

	c.upsertEvents(ctx, kept, "", l.ChannelID, l.RoleID, adapter.Name(), result)
}

// upsertEvents merges normalized provider events with the target's
// destination binding and writes them through. A store failure drops the
// event for this pass only — the provider returns it again next cycle.
func (c *Cycle) upsertEvents(ctx context.Context, events []provider.Event, teamID, channelID, roleID, providerName string, result *Result) {
	for _, ev := range events {
		err := c.store.Upsert(ctx, store.Event{
			ExternalID: ev.ExternalID,
			Provider:   providerName,
			Name:       ev.Name,
			StartTime:  ev.StartTime,
			TeamID:     teamID,
			ChannelID:  channelID,
			RoleID:     roleID,
		})
		if err != nil {
			c.logger.Warn("Event upsert failed", "event_id", ev.ExternalID, "error", err)
			result.AddErrorf("upsert %s: %v", ev.ExternalID, err)
			continue
		}
		result.mu.Lock()
		result.EventsUpserted++
		result.mu.Unlock()
	}
}

// matchExcluded reports whether name contains any excluded word as a
// case-insensitive substring, returning the first match.
func matchExcluded(name string, words []string) (string, bool) {
	lower := strings.ToLower(name)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}
