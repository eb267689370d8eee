package notify

import "context"

// Gateway sends one message to one destination topic. Implementations return
// an opaque error on transport failure; callers must contain that failure per
// destination and never let it abort sibling deliveries.
type Gateway interface {
	Send(ctx context.Context, topic, title, body string) error
}
