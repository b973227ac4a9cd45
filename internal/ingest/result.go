// Package ingest refreshes the event store from all configured watch
// targets. One cycle fans out a provider fetch per target, filters excluded
// events, and upserts the rest; a scheduler runs the cycle once at startup,
// once at the next local midnight, and every 24 hours after that.
package ingest

import (
	"fmt"
	"sync"
	"time"
)

// Result tracks counts and errors from one ingestion cycle.
type Result struct {
	TargetsTotal   int
	TargetsFailed  int
	EventsUpserted int
	EventsExcluded int
	Errors         []string
	Duration       time.Duration

	mu sync.Mutex
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the cycle.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"targets=%d failed=%d upserted=%d excluded=%d errors=%d dur=%s",
		r.TargetsTotal, r.TargetsFailed, r.EventsUpserted, r.EventsExcluded,
		len(r.Errors), r.Duration.Round(time.Millisecond))
}
