package notify

import (
	"fmt"

	"github.com/gamedaybot/gameday/internal/store"
)

// FormatMessage renders the channel message for an upcoming event: a role
// mention, the event name, and a Discord relative timestamp derived from
// the stored UTC start time (clients render <t:unix:R> as "in 8 minutes").
func FormatMessage(ev store.Event) string {
	return fmt.Sprintf("<@&%s> A game is coming up: %s at <t:%d:R>",
		ev.RoleID, ev.Name, ev.StartTime.Unix())
}
