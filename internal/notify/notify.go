// Package notify posts messages to Slack channels through incoming
// webhooks. Delivery is fire-and-forget: a rejected post is logged, not
// returned.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/opshq/orgsync/pkg/errors"
	"github.com/opshq/orgsync/pkg/logging"
)

// Message is a webhook payload.
type Message struct {
	Text string `json:"text"`
}

// Notifier posts messages to webhook URLs.
type Notifier struct {
	http *http.Client
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Post sends the message to the channel webhook. A non-200 response is
// logged and swallowed; only transport-level failures (bad URL,
// connection refused) are returned.
func (n *Notifier) Post(ctx context.Context, webhookURL string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.WrapParse("json", "webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapIO("create", "POST "+webhookURL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return &errors.APIError{
			Service:  "slack",
			Endpoint: webhookURL,
			Message:  "webhook request failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logging.Ctx(ctx).Warn().
			Str("webhook", webhookURL).
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Msg("posting to slack webhook failed")
	}
	return nil
}
