package delivery

import (
	"database/sql"
	"time"
)

// Status records the outcome of a single delivery attempt.
type Status string

const (
	StatusSent  Status = "sent"
	StatusError Status = "error"
)

// Log is one append-only delivery outcome record. ChannelID is nullable to
// accommodate rows written before destinations were modeled explicitly.
type Log struct {
	ID         int64
	ReminderID int64
	ChannelID  sql.NullInt64
	SentAt     time.Time
	Status     Status
	Detail     sql.NullString
}
