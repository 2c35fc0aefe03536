package genfile

import (
	"github.com/goccy/go-yaml"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/opshq/orgsync/internal/store"
	"github.com/opshq/orgsync/pkg/errors"
)

// exportSource is where vendor data changes belong.
const exportSource = "the Software Vendors table in the finance Airtable base"

// vendorExport is the YAML shape of one vendor in the snapshot.
type vendorExport struct {
	Name              string   `yaml:"name"`
	Status            string   `yaml:"status"`
	Website           string   `yaml:"website,omitempty"`
	Users             int      `yaml:"users"`
	CostPerUser       float64  `yaml:"cost_per_user_per_month,omitempty"`
	FlatCost          float64  `yaml:"flat_cost_per_month,omitempty"`
	TotalCost         float64  `yaml:"total_cost_per_month,omitempty"`
	Groups            []string `yaml:"groups,omitempty"`
	AirtableRecordID  string   `yaml:"airtable_record_id,omitempty"`
}

// RenderVendorSnapshot renders the stored vendors as a YAML document
// ordered by name (case-insensitive English collation, so "aws" sorts
// beside "Airtable").
func RenderVendorSnapshot(vendors []*store.Vendor) ([]byte, error) {
	byName := make(map[string]*store.Vendor, len(vendors))
	names := make([]string, 0, len(vendors))
	for _, v := range vendors {
		byName[v.Name] = v
		names = append(names, v.Name)
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(names)

	out := make([]vendorExport, 0, len(names))
	for _, name := range names {
		v := byName[name]
		out = append(out, vendorExport{
			Name:             v.Name,
			Status:           v.Status,
			Website:          v.Website,
			Users:            v.Users,
			CostPerUser:      v.CostPerUserPerMonth,
			FlatCost:         v.FlatCostPerMonth,
			TotalCost:        v.TotalCostPerMonth,
			Groups:           v.Groups,
			AirtableRecordID: v.AirtableRecordID,
		})
	}

	raw, err := yaml.Marshal(map[string][]vendorExport{"vendors": out})
	if err != nil {
		return nil, errors.WrapParse("yaml", "vendor snapshot", err)
	}
	return raw, nil
}

// ExportVendorSnapshot writes the vendor snapshot YAML to path with the
// generated-file header.
func ExportVendorSnapshot(vendors []*store.Vendor, path string) error {
	raw, err := RenderVendorSnapshot(vendors)
	if err != nil {
		return err
	}
	return WriteGenerated(path, exportSource, raw)
}
