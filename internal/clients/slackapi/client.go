// Package slackapi provides a client for the Slack Web API.
// The sync jobs only need team.billableInfo, which reports which members
// count against the paid seat total.
package slackapi

import (
	"context"
	"strings"

	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/internal/transport"
	"github.com/opshq/orgsync/pkg/errors"
)

const defaultBaseURL = "https://slack.com/api"

// BillableInfo describes one member's billing state.
type BillableInfo struct {
	BillingActive bool `json:"billing_active"`
}

type billableInfoResponse struct {
	OK           bool                    `json:"ok"`
	Error        string                  `json:"error"`
	BillableInfo map[string]BillableInfo `json:"billable_info"`
}

// Client is a Slack Web API client.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// New creates a Slack client with the configured bot token.
func New(cfg config.SlackConfig) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		transport: transport.New("slack", &transport.BearerAuth{Token: cfg.APIToken}),
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// BillableInfo returns the billing state of every workspace member,
// keyed by member ID.
func (c *Client) BillableInfo(ctx context.Context) (map[string]BillableInfo, error) {
	var resp billableInfoResponse
	if err := c.transport.GetJSON(ctx, c.baseURL+"/team.billableInfo", &resp); err != nil {
		return nil, err
	}

	// Slack reports API-level failures with a 200 and ok=false.
	if !resp.OK {
		return nil, &errors.APIError{
			Service:  "slack",
			Endpoint: "team.billableInfo",
			Message:  resp.Error,
		}
	}
	return resp.BillableInfo, nil
}

// CountBillableUsers returns the number of members with active billing.
func (c *Client) CountBillableUsers(ctx context.Context) (int, error) {
	info, err := c.BillableInfo(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, member := range info {
		if member.BillingActive {
			count++
		}
	}
	return count, nil
}
