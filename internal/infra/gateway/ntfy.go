// Package gateway contains the delivery drivers behind the notify.Gateway
// interface: an ntfy HTTP push driver, a Telegram driver for "telegram:"
// topics, and a router that picks a driver per topic.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NtfyGateway pushes one message to an ntfy topic endpoint. The message body
// travels as the request body and the title as the Title header.
type NtfyGateway struct {
	baseURL string
	client  *http.Client
}

func NewNtfyGateway(baseURL string, timeout time.Duration) *NtfyGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NtfyGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *NtfyGateway) Send(ctx context.Context, topic, title, body string) error {
	url := g.baseURL + "/" + topic

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("building ntfy request for topic %q: %w", topic, err)
	}
	req.Header.Set("Title", title)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushing to ntfy topic %q: %w", topic, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ntfy topic %q returned status %d", topic, resp.StatusCode)
	}
	return nil
}
