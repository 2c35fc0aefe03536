package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opshq/orgsync/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	err := errors.NewNotFoundError("vendor", "Acme")
	assert.Equal(t, `vendor "Acme" not found`, err.Error())
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
}

func TestAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"rate limited", 429, errors.ErrRateLimited},
		{"server error", 500, errors.ErrServiceUnavailable},
		{"bad gateway", 502, errors.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &errors.APIError{Service: "okta", StatusCode: tt.status, Message: "nope"}
			assert.True(t, stderrors.Is(err, tt.target))
		})
	}

	// A plain 404 from an API is not a sentinel match.
	err := &errors.APIError{Service: "airtable", StatusCode: 404, Message: "missing"}
	assert.False(t, stderrors.Is(err, errors.ErrRateLimited))
	assert.False(t, stderrors.Is(err, errors.ErrServiceUnavailable))
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &errors.APIError{Service: "slack", Message: "request failed", Err: cause}
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestConfigError(t *testing.T) {
	err := errors.NewConfigError("airtable", "AIRTABLE_API_KEY not set", nil)
	assert.Contains(t, err.Error(), "configuration error in airtable")
	assert.Contains(t, err.Error(), "AIRTABLE_API_KEY")
}

func TestSyncErrorWrapping(t *testing.T) {
	cause := &errors.APIError{Service: "github", StatusCode: 500, Message: "boom"}
	err := errors.WrapSync("vendors", "GitHub", cause)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sync error in vendors job at record "GitHub"`)
	assert.True(t, stderrors.Is(err, errors.ErrServiceUnavailable))

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "github", apiErr.Service)
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	assert.NoError(t, errors.WrapIO("read", "/tmp/x", nil))
	assert.NoError(t, errors.WrapParse("toml", "a.toml", nil))
	assert.NoError(t, errors.WrapSync("vendors", "", nil))
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected token")
	err := errors.WrapParse("csv", ".helpers/rfd.csv", cause)
	assert.Contains(t, err.Error(), "parse error in csv source .helpers/rfd.csv")
	assert.Equal(t, cause, stderrors.Unwrap(err))
}
