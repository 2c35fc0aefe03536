package airtable_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opshq/orgsync/internal/clients/airtable"
	"github.com/opshq/orgsync/internal/config"
)

func newTestClient(url string) *airtable.Client {
	return airtable.New(config.AirtableConfig{
		APIKey:        "keyTEST",
		FinanceBaseID: "appFinance",
	}, airtable.WithBaseURL(url))
}

func TestListRecordsFollowsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer keyTEST", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.EscapedPath(), "/appFinance/Software%20Vendors")

		if r.URL.Query().Get("offset") == "" {
			_, _ = w.Write([]byte(`{
				"records": [
					{"id": "rec1", "fields": {"name": "Acme"}},
					{"id": "rec2", "fields": {"name": "Globex"}}
				],
				"offset": "itrNEXT"
			}`))
			return
		}
		assert.Equal(t, "itrNEXT", r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(`{"records": [{"id": "rec3", "fields": {"name": "Initech"}}]}`))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).ListRecords(context.Background(), airtable.VendorsTable, airtable.GridView)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, "rec3", records[2].ID)
}

func TestDecodeFieldsForgiving(t *testing.T) {
	rec := airtable.Record{
		ID:     "recXYZ",
		Fields: json.RawMessage(`{"name": "Acme", "unexpected": 42}`),
	}

	var out struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Users  int    `json:"users"`
	}
	require.NoError(t, rec.DecodeFields(&out))
	assert.Equal(t, "Acme", out.Name)
	assert.Empty(t, out.Status)
	assert.Zero(t, out.Users)
}

func TestListRecordsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"type": "AUTHENTICATION_REQUIRED"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListRecords(context.Background(), airtable.VendorsTable, airtable.GridView)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUpdateRecord(t *testing.T) {
	var patched struct {
		Fields map[string]any `json:"fields"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Contains(t, r.URL.Path, "/recXYZ")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
		_, _ = w.Write([]byte(`{"id": "recXYZ"}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpdateRecord(context.Background(),
		airtable.VendorsTable, "recXYZ", map[string]any{"users": 12})
	require.NoError(t, err)
	assert.EqualValues(t, 12, patched.Fields["users"])
}
