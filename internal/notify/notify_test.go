package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamedaybot/gameday/internal/store"
)

// --------------------------------------------------------------------------
// Fakes
// --------------------------------------------------------------------------

// memStore mirrors the real store's scan and conditional-mark contract.
type memStore struct {
	events    map[string]*store.Event
	lastStart time.Time
	lastEnd   time.Time
}

func newMemStore(events ...store.Event) *memStore {
	m := &memStore{events: map[string]*store.Event{}}
	for i := range events {
		ev := events[i]
		m.events[ev.ExternalID] = &ev
	}
	return m
}

func (m *memStore) QueryWindow(ctx context.Context, start, end time.Time) ([]store.Event, error) {
	m.lastStart, m.lastEnd = start, end
	var out []store.Event
	for _, ev := range m.events {
		if ev.Notified {
			continue
		}
		if ev.StartTime.Before(start) || ev.StartTime.After(end) {
			continue
		}
		out = append(out, *ev)
	}
	return out, nil
}

func (m *memStore) MarkNotified(ctx context.Context, externalID string) (store.MarkResult, error) {
	ev, ok := m.events[externalID]
	if !ok {
		return store.NotFound, nil
	}
	if ev.Notified {
		return store.AlreadyMarked, nil
	}
	ev.Notified = true
	return store.Marked, nil
}

type fakeSink struct {
	sent []string // channelID
	err  error
}

func (f *fakeSink) Send(ctx context.Context, channelID, content string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, channelID)
	return nil
}

func newTestWorker(st EventStore, sink Sink, now time.Time) *Worker {
	w := NewWorker(st, sink, time.Minute, 10*time.Minute, nil)
	w.now = func() time.Time { return now }
	return w
}

func event(id string, start time.Time) store.Event {
	return store.Event{
		ExternalID: id,
		Provider:   "thesportsdb",
		Name:       "Lakers vs Celtics",
		StartTime:  start,
		ChannelID:  "chan-1",
		RoleID:     "role-1",
	}
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestPass_WindowBounds(t *testing.T) {
	now := time.Date(2024, 1, 15, 19, 25, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		wantSend bool
	}{
		{"nine minutes ahead", now.Add(9 * time.Minute), true},
		{"exactly window edge", now.Add(10 * time.Minute), true},
		{"eleven minutes ahead", now.Add(11 * time.Minute), false},
		{"nine minutes ago", now.Add(-9 * time.Minute), true},
		{"eleven minutes ago", now.Add(-11 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMemStore(event("E1", tt.start))
			sink := &fakeSink{}

			sent, _ := newTestWorker(st, sink, now).Pass(context.Background())

			if tt.wantSend {
				assert.Equal(t, 1, sent)
			} else {
				assert.Equal(t, 0, sent)
			}

			// The scan bounds are exactly now±window.
			assert.True(t, st.lastStart.Equal(now.Add(-10*time.Minute)))
			assert.True(t, st.lastEnd.Equal(now.Add(10*time.Minute)))
		})
	}
}

func TestPass_SendsAtMostOnce(t *testing.T) {
	now := time.Date(2024, 1, 15, 19, 25, 0, 0, time.UTC)
	st := newMemStore(event("E1", time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC)))
	sink := &fakeSink{}
	worker := newTestWorker(st, sink, now)

	sent, failed := worker.Pass(context.Background())
	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, failed)
	assert.True(t, st.events["E1"].Notified)

	// A second immediate pass over the unchanged store sends nothing more.
	sent, failed = worker.Pass(context.Background())
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)
	require.Len(t, sink.sent, 1)
}

func TestPass_ChannelUnavailableLeavesEventForRetry(t *testing.T) {
	now := time.Date(2024, 1, 15, 19, 25, 0, 0, time.UTC)
	st := newMemStore(event("E1", now.Add(5*time.Minute)))

	broken := &fakeSink{err: ErrChannelUnavailable}
	sent, failed := newTestWorker(st, broken, now).Pass(context.Background())
	assert.Equal(t, 0, sent)
	assert.Equal(t, 1, failed)
	assert.False(t, st.events["E1"].Notified, "must not be marked on failure")

	// A later pass with a working sink retries and succeeds.
	working := &fakeSink{}
	sent, failed = newTestWorker(st, working, now.Add(time.Minute)).Pass(context.Background())
	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, failed)
	assert.True(t, st.events["E1"].Notified)
}

func TestPass_SkipsAlreadyNotified(t *testing.T) {
	now := time.Date(2024, 1, 15, 19, 25, 0, 0, time.UTC)
	ev := event("E1", now.Add(2*time.Minute))
	ev.Notified = true
	st := newMemStore(ev)
	sink := &fakeSink{}

	sent, failed := newTestWorker(st, sink, now).Pass(context.Background())
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)
	assert.Empty(t, sink.sent)
}
