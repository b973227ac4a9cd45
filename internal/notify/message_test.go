package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gamedaybot/gameday/internal/store"
)

func TestFormatMessage(t *testing.T) {
	ev := store.Event{
		ExternalID: "602129",
		Name:       "Lakers vs Celtics",
		StartTime:  time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC),
		ChannelID:  "chan-1",
		RoleID:     "987654321",
	}

	got := FormatMessage(ev)

	assert.Equal(t, "<@&987654321> A game is coming up: Lakers vs Celtics at <t:1705347000:R>", got)
}

func TestFormatMessage_UnixTimestampIsUTCIndependent(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ev := store.Event{
		Name:      "Arsenal vs Chelsea",
		StartTime: time.Date(2024, 1, 15, 21, 30, 0, 0, loc),
		RoleID:    "r",
	}

	assert.Contains(t, FormatMessage(ev), "<t:1705347000:R>")
}
