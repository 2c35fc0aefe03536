// Package googleadmin provides a client for the Google Workspace Admin
// SDK directory API. Authentication uses a service account key with
// domain-wide delegation, impersonating the configured admin subject.
package googleadmin

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/internal/transport"
	"github.com/opshq/orgsync/pkg/errors"
)

const defaultBaseURL = "https://admin.googleapis.com/admin/directory/v1"

// scopes requested for the directory token.
var scopes = []string{
	"https://www.googleapis.com/auth/admin.directory.user.readonly",
	"https://www.googleapis.com/auth/admin.directory.group.readonly",
}

// User is a directory user. Only the fields the sync jobs read are mapped.
type User struct {
	ID           string `json:"id"`
	PrimaryEmail string `json:"primaryEmail"`
	Suspended    bool   `json:"suspended"`
}

type usersResponse struct {
	Users         []User `json:"users"`
	NextPageToken string `json:"nextPageToken"`
}

// Client is a Google Workspace directory client scoped to one customer.
type Client struct {
	baseURL    string
	customerID string
	domain     string
	transport  *transport.Client
}

// New creates a directory client from the service account key named in
// cfg. The token source is resolved once here and reused for every call
// in the run; an empty initial token is rejected up front.
func New(ctx context.Context, cfg config.GSuiteConfig) (*Client, error) {
	keyJSON, err := os.ReadFile(cfg.CredentialFile)
	if err != nil {
		return nil, errors.WrapIO("read", cfg.CredentialFile, err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(keyJSON, scopes...)
	if err != nil {
		return nil, &errors.AuthenticationError{
			Service: "gsuite",
			Method:  "service_account",
			Message: "invalid service account key",
			Err:     err,
		}
	}
	jwtConfig.Subject = cfg.Subject

	source := jwtConfig.TokenSource(ctx)
	token, err := source.Token()
	if err != nil {
		return nil, &errors.AuthenticationError{
			Service: "gsuite",
			Method:  "service_account",
			Message: "token exchange failed",
			Err:     err,
		}
	}
	if token.AccessToken == "" {
		return nil, &errors.AuthenticationError{
			Service: "gsuite",
			Method:  "service_account",
			Message: "empty token is not valid",
		}
	}

	return NewWithTokenSource(cfg, oauth2.ReuseTokenSource(token, source)), nil
}

// NewWithTokenSource creates a directory client with an explicit token
// source. Used by tests and by callers that manage credentials themselves.
func NewWithTokenSource(cfg config.GSuiteConfig, source oauth2.TokenSource) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		customerID: cfg.CustomerID,
		domain:     cfg.Domain,
		transport:  transport.New("gsuite", &transport.TokenSourceAuth{Source: source}),
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// ListUsers lists every user of the customer's domain, following page
// tokens until the listing is exhausted.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	pageToken := ""

	for {
		u := fmt.Sprintf("%s/users?customer=%s&domain=%s&maxResults=500",
			c.baseURL, url.QueryEscape(c.customerID), url.QueryEscape(c.domain))
		if pageToken != "" {
			u += "&pageToken=" + url.QueryEscape(pageToken)
		}

		var page usersResponse
		if err := c.transport.GetJSON(ctx, u, &page); err != nil {
			return nil, err
		}

		users = append(users, page.Users...)
		if page.NextPageToken == "" {
			return users, nil
		}
		pageToken = page.NextPageToken
	}
}

// CountUsers returns the number of directory users.
func (c *Client) CountUsers(ctx context.Context) (int, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}
