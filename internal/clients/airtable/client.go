// Package airtable provides a client for the Airtable records API.
// Only the operations the sync jobs use are implemented: listing a table
// (full snapshot, following pagination offsets) and patching a record's
// fields for the write-back path.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/internal/transport"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// VendorsTable is the software vendors table in the finance base.
const VendorsTable = "Software Vendors"

// GridView is the default view records are listed from.
const GridView = "Grid view"

// Record is a single Airtable record: an opaque field map plus the record
// identifier used as the remote linkage.
type Record struct {
	ID          string          `json:"id"`
	Fields      json.RawMessage `json:"fields"`
	CreatedTime string          `json:"createdTime"`
}

// DecodeFields decodes the record's field map into target. Unknown fields
// are ignored and absent fields keep their zero values.
func (r *Record) DecodeFields(target any) error {
	return json.Unmarshal(r.Fields, target)
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// Client is an Airtable API client scoped to a single base.
type Client struct {
	baseURL   string
	baseID    string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// New creates an Airtable client for the base configured in cfg.
func New(cfg config.AirtableConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		baseID:    cfg.FinanceBaseID,
		transport: transport.New("airtable", &transport.BearerAuth{Token: cfg.APIKey}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRecords lists every record of the table in the given view,
// following pagination offsets until the listing is exhausted.
func (c *Client) ListRecords(ctx context.Context, table, view string) ([]Record, error) {
	var records []Record
	offset := ""

	for {
		u := fmt.Sprintf("%s/%s/%s?view=%s", c.baseURL, c.baseID,
			url.PathEscape(table), url.QueryEscape(view))
		if offset != "" {
			u += "&offset=" + url.QueryEscape(offset)
		}

		var page listResponse
		if err := c.transport.GetJSON(ctx, u, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Records...)
		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

// UpdateRecord patches the given fields of a record. This is the remote
// sync sink: locally computed fields flow back to the base through here.
func (c *Client) UpdateRecord(ctx context.Context, table, recordID string, fields any) error {
	u := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.baseID,
		url.PathEscape(table), url.PathEscape(recordID))
	body := map[string]any{"fields": fields}
	return c.transport.PatchJSON(ctx, u, body, nil)
}
