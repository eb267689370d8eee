package reminder

import (
	"database/sql"
	"time"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
)

// MaxTitleLength is the upper bound enforced on reminder titles.
const MaxTitleLength = 120

// Reminder is a scheduled notification. The scheduling core only ever reads a
// Reminder; all mutation happens through the API layer.
type Reminder struct {
	ID        int64
	Title     string
	Body      sql.NullString
	Cron      string
	Timezone  string
	Enabled   bool
	CreatedAt time.Time

	// Channels holds the associated destinations, eagerly resolved by the
	// repository. Order is not meaningful.
	Channels []*channel.Channel
}

// EnabledChannels returns the subset of associated channels that are enabled.
// A disabled channel is excluded from fan-out even while still associated.
func (r *Reminder) EnabledChannels() []*channel.Channel {
	out := make([]*channel.Channel, 0, len(r.Channels))
	for _, ch := range r.Channels {
		if ch.Enabled {
			out = append(out, ch)
		}
	}
	return out
}
