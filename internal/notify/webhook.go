package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
)

// WebhookNotifier POSTs every event as JSON to a fixed URL.
type WebhookNotifier struct {
	url    string
	client *resty.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "go-fleet-ws")
	return &WebhookNotifier{url: url, client: client}
}

// Send delivers ev and reports any transport error or non-2xx response.
func (w *WebhookNotifier) Send(ctx context.Context, ev Event) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(ev).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", w.url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s: HTTP %d: %s", w.url, resp.StatusCode(), resp.String())
	}
	return nil
}

// Notify sends in the background and only logs failures.
func (w *WebhookNotifier) Notify(ev Event) {
	go func() {
		if err := w.Send(context.Background(), ev); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"event":       ev.Type,
				"transfer_id": ev.TransferID,
			}).Warn("webhook delivery failed")
		}
	}()
}
