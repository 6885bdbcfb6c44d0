package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
)

// WebhookNotifier POSTs notifications as JSON to a configured
// delivery endpoint (e.g. a push relay).
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewWebhookNotifier(url string, httpClient *http.Client) *WebhookNotifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WebhookNotifier{
		url:        url,
		httpClient: httpClient,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, notification Notification) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notify.webhook")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post notification: unexpected status %d", resp.StatusCode)
	}

	return nil
}
