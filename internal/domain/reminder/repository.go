package reminder

import "context"

// Repository defines the operations for persisting and retrieving Reminder
// entities. All read methods resolve the associated channels eagerly.
type Repository interface {
	// Create persists the reminder and associates it with the given channels.
	Create(ctx context.Context, r *Reminder, channelIDs []int64) error
	GetByID(ctx context.Context, id int64) (*Reminder, error)
	List(ctx context.Context) ([]*Reminder, error)
	// ListEnabled returns every enabled reminder; this is the reconciliation
	// loop's source of truth.
	ListEnabled(ctx context.Context) ([]*Reminder, error)
	// Update persists the reminder's scalar fields (title, body, cron,
	// timezone, enabled). Channel associations change via ReplaceChannels.
	Update(ctx context.Context, r *Reminder) error
	ReplaceChannels(ctx context.Context, reminderID int64, channelIDs []int64) error
	Delete(ctx context.Context, id int64) error
}
