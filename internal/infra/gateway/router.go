package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/wuchris-ch/notification-app/internal/domain/notify"
)

// Router dispatches a send to the driver matching the topic scheme. Plain
// topics go to ntfy; "telegram:" topics go to the Telegram driver when one is
// configured.
type Router struct {
	ntfy     notify.Gateway
	telegram notify.Gateway // nil when no bot token is configured
}

func NewRouter(ntfy, telegram notify.Gateway) *Router {
	return &Router{ntfy: ntfy, telegram: telegram}
}

func (r *Router) Send(ctx context.Context, topic, title, body string) error {
	if strings.HasPrefix(topic, TelegramTopicPrefix) {
		if r.telegram == nil {
			return fmt.Errorf("topic %q requires Telegram delivery, but no bot token is configured", topic)
		}
		return r.telegram.Send(ctx, topic, title, body)
	}
	return r.ntfy.Send(ctx, topic, title, body)
}
