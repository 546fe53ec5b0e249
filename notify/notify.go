package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/integratewise/webhook-gateway/event"
)

/* Outbound notification sink: relays an event summary to chat channels
 * through their incoming-webhook URLs. Either URL may be empty; a relay
 * with no configured URL is a no-op, not an error.
 */

// ChatNotifier posts chat-platform-formatted payloads over HTTP
type ChatNotifier struct {
	SlackURL   string
	DiscordURL string
	Client     *http.Client
}

// NewChatNotifier creates a notifier for the configured webhook URLs
func NewChatNotifier(slackURL, discordURL string) *ChatNotifier {
	return &ChatNotifier{
		SlackURL:   slackURL,
		DiscordURL: discordURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts a summary of the event to every configured channel
func (n *ChatNotifier) Notify(ctx context.Context, ev event.InboundEvent) error {
	text := fmt.Sprintf("Webhook received from %s: %s (signature valid: %t)",
		ev.Provider, ev.EventType, ev.SignatureValid)

	if n.SlackURL != "" {
		if err := n.post(ctx, n.SlackURL, map[string]string{"text": text}); err != nil {
			return fmt.Errorf("posting to slack: %w", err)
		}
	}
	if n.DiscordURL != "" {
		if err := n.post(ctx, n.DiscordURL, map[string]string{"content": text}); err != nil {
			return fmt.Errorf("posting to discord: %w", err)
		}
	}
	return nil
}

func (n *ChatNotifier) post(ctx context.Context, url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}
	return nil
}
