package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// WebhookNotifier implements ports.Notifier by POSTing to a configured push
// webhook. An empty URL means the notification channel was never authorized;
// Notify then silently no-ops, which keeps alert dispatch best-effort.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// notificationPayload is the webhook request body.
type notificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewWebhookNotifier creates a WebhookNotifier. Pass an empty URL to disable
// the channel.
func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: client,
	}
}

// Notify delivers the title/body pair to the webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, title, body string) error {
	if n.url == "" {
		return nil
	}

	payload, err := json.Marshal(notificationPayload{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}

	return nil
}
