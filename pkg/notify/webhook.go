package notify

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Webhook POSTs each notification as JSON to a configured URL. Delivery is
// best-effort: errors are logged and never retried.
type Webhook struct {
	url    string
	client *resty.Client
}

// NewWebhook creates a webhook notifier for the given URL
func NewWebhook(url string) *Webhook {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(0)
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Notify(n Notification) {
	resp, err := w.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(n).
		Post(w.url)
	if err != nil {
		logf("notify: webhook post failed: %v", err)
		return
	}
	if resp.IsError() {
		logf("notify: webhook returned %s", resp.Status())
	}
}
