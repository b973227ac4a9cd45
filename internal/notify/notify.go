// Package notify scans the event store on a fixed interval and fires one
// Discord message per event whose start time falls inside the notification
// window. At-most-once is enforced by the notified flag: the scan already
// excludes notified events and the mark is a conditional update.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gamedaybot/gameday/internal/store"
)

// ErrChannelUnavailable is returned by a Sink when the destination channel
// cannot be resolved or accessed. The event is left unnotified so a later
// pass can retry while it remains inside the window.
var ErrChannelUnavailable = errors.New("notification channel unavailable")

// EventStore is the read/mark surface the worker uses.
type EventStore interface {
	QueryWindow(ctx context.Context, start, end time.Time) ([]store.Event, error)
	MarkNotified(ctx context.Context, externalID string) (store.MarkResult, error)
}

// Sink delivers a formatted message to a destination channel.
type Sink interface {
	Send(ctx context.Context, channelID, content string) error
}

// Worker runs the notification cycle.
type Worker struct {
	store    EventStore
	sink     Sink
	interval time.Duration
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time // injectable for tests
}

// NewWorker creates a notification worker. window is the half-width: events
// within [now-window, now+window] are eligible.
func NewWorker(st EventStore, sink Sink, interval, window time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &Worker{
		store:    st,
		sink:     sink,
		interval: interval,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the notification loop. Passes are assumed not to overlap: the
// interval is far longer than a pass takes, and passes run sequentially on
// this goroutine either way. Blocks until ctx is cancelled. Intended to be
// called with `go`.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Notification worker started", "interval", w.interval, "window", w.window)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, failed := w.Pass(ctx)
			if sent+failed > 0 {
				w.logger.Info("Notification pass", "sent", sent, "failed", failed)
			}
		case <-ctx.Done():
			w.logger.Info("Notification worker stopped")
			return
		}
	}
}

// Pass runs a single notification scan. Per-event failures are logged and
// skipped; the event stays unnotified and is retried on the next pass as
// long as it remains inside the window. Once the window has fully passed,
// an unsent event is simply never picked up again: accepted loss, not an
// error condition.
func (w *Worker) Pass(ctx context.Context) (sent, failed int) {
	now := w.now()
	events, err := w.store.QueryWindow(ctx, now.Add(-w.window), now.Add(w.window))
	if err != nil {
		w.logger.Error("Window query failed", "error", err)
		return 0, 0
	}

	for _, ev := range events {
		if err := w.sink.Send(ctx, ev.ChannelID, FormatMessage(ev)); err != nil {
			if errors.Is(err, ErrChannelUnavailable) {
				w.logger.Warn("Channel unavailable, will retry while in window",
					"event_id", ev.ExternalID, "channel_id", ev.ChannelID)
			} else {
				w.logger.Warn("Send failed", "event_id", ev.ExternalID, "error", err)
			}
			failed++
			continue
		}

		res, err := w.store.MarkNotified(ctx, ev.ExternalID)
		if err != nil {
			w.logger.Error("Mark notified failed", "event_id", ev.ExternalID, "error", err)
			continue
		}
		if res == store.AlreadyMarked {
			// Another pass got here first; the conditional update kept this
			// from being a double write, but the send above already
			// happened. Log it loudly.
			w.logger.Warn("Event was already marked notified", "event_id", ev.ExternalID)
		}
		sent++
	}
	return sent, failed
}
