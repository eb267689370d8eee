package channel

import "context"

// Repository defines the operations for persisting and retrieving Channel entities.
type Repository interface {
	Create(ctx context.Context, ch *Channel) error
	GetByID(ctx context.Context, id int64) (*Channel, error)
	GetByName(ctx context.Context, name string) (*Channel, error)
	List(ctx context.Context) ([]*Channel, error)
	Update(ctx context.Context, ch *Channel) error
	// InUse reports whether any reminder still references the channel.
	InUse(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
