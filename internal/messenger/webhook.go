package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookMessenger posts outbound messages to the chat platform's inbound
// webhook endpoint.
type WebhookMessenger struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookMessenger(webhookURL string) *WebhookMessenger {
	return &WebhookMessenger{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type outboundMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

func (m *WebhookMessenger) Send(ctx context.Context, recipient, text string) error {
	body, err := json.Marshal(outboundMessage{Channel: recipient, Text: text})
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message to %s: %w", recipient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post message to %s: unexpected status %d", recipient, resp.StatusCode)
	}
	return nil
}
