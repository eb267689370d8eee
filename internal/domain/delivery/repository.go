package delivery

import "context"

// Filter narrows a delivery log listing.
type Filter struct {
	ReminderID int64 // 0 means no reminder filter
	Limit      int   // 0 means the repository default
}

// Repository defines the operations for delivery outcome records. Records are
// write-once: there is no update or delete.
type Repository interface {
	// Append persists all outcomes of one fire event as a single unit.
	Append(ctx context.Context, logs []*Log) error
	// List returns outcomes newest first.
	List(ctx context.Context, f Filter) ([]*Log, error)
}
