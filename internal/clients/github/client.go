// Package github wraps the GitHub API for the two things the sync jobs
// need: the org's plan seat usage and raw file content out of a repo.
package github

import (
	"context"

	gogithub "github.com/google/go-github/v66/github"

	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/pkg/errors"
)

// Client is a GitHub API client scoped to one org.
type Client struct {
	gh  *gogithub.Client
	org string
}

// New creates a GitHub client authenticated with the configured token.
func New(cfg config.GitHubConfig) *Client {
	return &Client{
		gh:  gogithub.NewClient(nil).WithAuthToken(cfg.Token),
		org: cfg.Org,
	}
}

// NewWithClient wraps an existing go-github client. Used by tests.
func NewWithClient(gh *gogithub.Client, org string) *Client {
	return &Client{gh: gh, org: org}
}

// Org returns the configured organization name.
func (c *Client) Org() string {
	return c.org
}

// OrgFilledSeats returns the number of filled seats on the org's plan.
func (c *Client) OrgFilledSeats(ctx context.Context) (int, error) {
	org, _, err := c.gh.Organizations.Get(ctx, c.org)
	if err != nil {
		return 0, &errors.APIError{
			Service:  "github",
			Endpoint: "orgs/" + c.org,
			Message:  "failed to get organization",
			Err:      err,
		}
	}
	if org.Plan == nil {
		return 0, &errors.APIError{
			Service:  "github",
			Endpoint: "orgs/" + c.org,
			Message:  "organization has no plan information",
		}
	}
	return org.Plan.GetFilledSeats(), nil
}

// RepoFileContent fetches the decoded content of a file in one of the
// org's repositories.
func (c *Client) RepoFileContent(ctx context.Context, repo, path string) (string, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.org, repo, path, nil)
	if err != nil {
		return "", &errors.APIError{
			Service:  "github",
			Endpoint: c.org + "/" + repo + "/" + path,
			Message:  "failed to get file contents",
			Err:      err,
		}
	}
	if file == nil {
		return "", &errors.APIError{
			Service:  "github",
			Endpoint: c.org + "/" + repo + "/" + path,
			Message:  "path is a directory, not a file",
		}
	}

	content, err := file.GetContent()
	if err != nil {
		return "", errors.WrapParse("base64", path, err)
	}
	return content, nil
}
