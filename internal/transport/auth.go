package transport

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request) error
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) error {
	// No authentication applied
	return nil
}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// HeaderAuth implements custom header authentication. Okta uses this with
// the "SSWS" scheme in an Authorization header.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) error {
	req.Header.Set(a.Header, a.Value)
	return nil
}

// TokenSourceAuth authenticates with a bearer token obtained from an
// oauth2.TokenSource. The source is resolved once per run and caches the
// token for every call within that run.
type TokenSourceAuth struct {
	Source oauth2.TokenSource
}

// Apply implements the Authenticator interface for TokenSourceAuth.
func (a *TokenSourceAuth) Apply(req *http.Request) error {
	token, err := a.Source.Token()
	if err != nil {
		return err
	}
	token.SetAuthHeader(req)
	return nil
}
