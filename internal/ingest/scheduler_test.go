package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUntilNextMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			"one second past midnight",
			time.Date(2024, 1, 15, 0, 0, 1, 0, time.UTC),
			24*time.Hour - time.Second,
		},
		{
			"noon",
			time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			12 * time.Hour,
		},
		{
			"just before midnight",
			time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC),
			time.Minute,
		},
		{
			"local zone evening",
			time.Date(2024, 1, 15, 21, 30, 0, 0, loc),
			2*time.Hour + 30*time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, untilNextMidnight(tt.now))
		})
	}
}
