package channel

import (
	"database/sql"
	"time"
)

// Channel is a named delivery target identified by a push-notification topic.
// Its timezone is only a default applied when creating reminders; the scheduler
// never reads it.
type Channel struct {
	ID          int64
	Name        string
	Description sql.NullString
	Topic       string
	Timezone    string
	Enabled     bool
	CreatedAt   time.Time
}
