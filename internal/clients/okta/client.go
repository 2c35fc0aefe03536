// Package okta provides a client for the Okta users API.
package okta

import (
	"context"
	"strings"

	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/internal/transport"
)

// User is an Okta user. Only the fields the sync jobs read are mapped.
type User struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Profile struct {
		Login string `json:"login"`
		Email string `json:"email"`
	} `json:"profile"`
}

// Client is an Okta API client scoped to one org.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// New creates an Okta client for the org configured in cfg.
// Okta authenticates API tokens with the SSWS scheme.
func New(cfg config.OktaConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.OrgURL, "/") + "/api/v1",
		transport: transport.New("okta", &transport.HeaderAuth{
			Header: "Authorization",
			Value:  "SSWS " + cfg.Token,
		}),
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/") + "/api/v1"
}

// ListUsers lists every user in the org, following the Link rel="next"
// pagination headers until the listing is exhausted.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	url := c.baseURL + "/users?limit=200"

	for url != "" {
		resp, err := c.transport.Get(ctx, url)
		if err != nil {
			return nil, err
		}

		next := nextLink(resp.Header.Values("Link"))

		var page []User
		if err := c.transport.DecodeResponse(resp, &page); err != nil {
			return nil, err
		}

		users = append(users, page...)
		url = next
	}
	return users, nil
}

// CountUsers returns the number of users in the org.
func (c *Client) CountUsers(ctx context.Context) (int, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// nextLink extracts the rel="next" URL from Okta's Link headers, or ""
// when the listing is on its last page.
func nextLink(links []string) string {
	for _, header := range links {
		for _, link := range strings.Split(header, ",") {
			parts := strings.Split(link, ";")
			if len(parts) < 2 {
				continue
			}
			url := strings.Trim(strings.TrimSpace(parts[0]), "<>")
			for _, param := range parts[1:] {
				if strings.TrimSpace(param) == `rel="next"` {
					return url
				}
			}
		}
	}
	return ""
}
