package slackapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opshq/orgsync/internal/clients/slackapi"
	"github.com/opshq/orgsync/internal/config"
)

func newTestClient(url string) *slackapi.Client {
	c := slackapi.New(config.SlackConfig{APIToken: "xoxb-test"})
	c.SetBaseURL(url)
	return c
}

func TestCountBillableUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/team.billableInfo", r.URL.Path)
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"ok": true,
			"billable_info": {
				"U1": {"billing_active": true},
				"U2": {"billing_active": false},
				"U3": {"billing_active": true}
			}
		}`))
	}))
	defer server.Close()

	count, err := newTestClient(server.URL).CountBillableUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBillableInfoAPILevelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "error": "invalid_auth"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).BillableInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_auth")
}

func TestBillableInfoEmptyTeam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true, "billable_info": {}}`))
	}))
	defer server.Close()

	count, err := newTestClient(server.URL).CountBillableUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
