package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/opshq/orgsync/pkg/errors"
)

// NewVendor is the shape of a vendor as decoded from the remote Airtable
// record's field map. Fields absent from the remote record decode to their
// zero values; a sparse record is not an error.
type NewVendor struct {
	Name                          string   `json:"name"`
	Status                        string   `json:"status"`
	Description                   string   `json:"description"`
	Website                       string   `json:"website"`
	HasOktaIntegration            bool     `json:"has_okta_integration"`
	UsedPurelyForAPI              bool     `json:"used_purely_for_api"`
	PayAsYouGo                    bool     `json:"pay_as_you_go"`
	PayAsYouGoPricingDescription  string   `json:"pay_as_you_go_pricing_description"`
	SoftwareLicenses              bool     `json:"software_licenses"`
	CostPerUserPerMonth           float64  `json:"cost_per_user_per_month"`
	Users                         int      `json:"users"`
	FlatCostPerMonth              float64  `json:"flat_cost_per_month"`
	TotalCostPerMonth             float64  `json:"total_cost_per_month"`
	Groups                        []string `json:"groups"`
}

// Vendor is a stored vendor row.
type Vendor struct {
	ID int64
	NewVendor
	// AirtableRecordID links this row to its record in the remote base.
	// Empty until the first reconciliation pass backfills it.
	AirtableRecordID string
}

const vendorColumns = `name, status, description, website,
	has_okta_integration, used_purely_for_api, pay_as_you_go,
	pay_as_you_go_pricing_description, software_licenses,
	cost_per_user_per_month, users, flat_cost_per_month,
	total_cost_per_month, groups, airtable_record_id`

// GetVendor fetches a vendor by its natural key. Returns a NotFoundError
// when no row matches.
func (s *Store) GetVendor(ctx context.Context, name string) (*Vendor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, `+vendorColumns+` FROM vendors WHERE name = ?`, name)
	return scanVendor(row, name)
}

// UpsertVendor inserts the vendor if no row carries its name, otherwise
// updates the non-key fields of the existing row in place. The stored
// airtable_record_id is preserved on update. Returns the stored row.
func (s *Store) UpsertVendor(ctx context.Context, v *NewVendor) (*Vendor, error) {
	groups, err := marshalNames(v.Groups)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vendors (`+vendorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '')
		ON CONFLICT(name) DO UPDATE SET
			status = excluded.status,
			description = excluded.description,
			website = excluded.website,
			has_okta_integration = excluded.has_okta_integration,
			used_purely_for_api = excluded.used_purely_for_api,
			pay_as_you_go = excluded.pay_as_you_go,
			pay_as_you_go_pricing_description = excluded.pay_as_you_go_pricing_description,
			software_licenses = excluded.software_licenses,
			cost_per_user_per_month = excluded.cost_per_user_per_month,
			users = excluded.users,
			flat_cost_per_month = excluded.flat_cost_per_month,
			total_cost_per_month = excluded.total_cost_per_month,
			groups = excluded.groups`,
		v.Name, v.Status, v.Description, v.Website,
		v.HasOktaIntegration, v.UsedPurelyForAPI, v.PayAsYouGo,
		v.PayAsYouGoPricingDescription, v.SoftwareLicenses,
		v.CostPerUserPerMonth, v.Users, v.FlatCostPerMonth,
		v.TotalCostPerMonth, groups)
	if err != nil {
		return nil, errors.WrapIO("write", "vendors", err)
	}

	return s.GetVendor(ctx, v.Name)
}

// UpdateVendor writes all fields of an existing row back to the store,
// including the airtable record linkage.
func (s *Store) UpdateVendor(ctx context.Context, v *Vendor) error {
	groups, err := marshalNames(v.Groups)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE vendors SET
			name = ?, status = ?, description = ?, website = ?,
			has_okta_integration = ?, used_purely_for_api = ?,
			pay_as_you_go = ?, pay_as_you_go_pricing_description = ?,
			software_licenses = ?, cost_per_user_per_month = ?,
			users = ?, flat_cost_per_month = ?, total_cost_per_month = ?,
			groups = ?, airtable_record_id = ?
		WHERE id = ?`,
		v.Name, v.Status, v.Description, v.Website,
		v.HasOktaIntegration, v.UsedPurelyForAPI,
		v.PayAsYouGo, v.PayAsYouGoPricingDescription,
		v.SoftwareLicenses, v.CostPerUserPerMonth,
		v.Users, v.FlatCostPerMonth, v.TotalCostPerMonth,
		groups, v.AirtableRecordID, v.ID)
	if err != nil {
		return errors.WrapIO("write", "vendors", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapIO("write", "vendors", err)
	}
	if n == 0 {
		return errors.NewNotFoundError("vendor", v.Name)
	}
	return nil
}

// ListVendors returns all vendor rows ordered by name.
func (s *Store) ListVendors(ctx context.Context) ([]*Vendor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, `+vendorColumns+` FROM vendors ORDER BY name`)
	if err != nil {
		return nil, errors.WrapIO("read", "vendors", err)
	}
	defer rows.Close()

	var vendors []*Vendor
	for rows.Next() {
		v, err := scanVendor(rows, "")
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// CountVendors returns the number of vendor rows.
func (s *Store) CountVendors(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vendors`).Scan(&n); err != nil {
		return 0, errors.WrapIO("read", "vendors", err)
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVendor(row scanner, name string) (*Vendor, error) {
	var v Vendor
	var groups string
	err := row.Scan(&v.ID, &v.Name, &v.Status, &v.Description, &v.Website,
		&v.HasOktaIntegration, &v.UsedPurelyForAPI, &v.PayAsYouGo,
		&v.PayAsYouGoPricingDescription, &v.SoftwareLicenses,
		&v.CostPerUserPerMonth, &v.Users, &v.FlatCostPerMonth,
		&v.TotalCostPerMonth, &groups, &v.AirtableRecordID)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("vendor", name)
	}
	if err != nil {
		return nil, errors.WrapIO("read", "vendors", err)
	}

	if err := json.Unmarshal([]byte(groups), &v.Groups); err != nil {
		return nil, errors.WrapParse("json", "vendors.groups", err)
	}
	return &v, nil
}

// marshalNames serializes a name list into its JSON column form.
// nil marshals as an empty list so columns never hold "null".
func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return "", errors.WrapParse("json", "name list", err)
	}
	return string(raw), nil
}
