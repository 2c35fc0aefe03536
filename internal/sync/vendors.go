// Package sync implements the reconciliation runs between the remote
// Airtable base and the local record store.
//
// A run lists the remote table as a full snapshot, enriches each record
// with live counts from the SaaS directory APIs, and upserts the result
// into the store by natural key. Records are processed sequentially and
// the first failure aborts the run: rows committed before the failure
// stay committed, nothing after it is touched.
package sync

import (
	"context"

	"github.com/opshq/orgsync/internal/clients/airtable"
	"github.com/opshq/orgsync/internal/store"
	"github.com/opshq/orgsync/pkg/errors"
	"github.com/opshq/orgsync/pkg/logging"
)

// RecordLister lists records from a remote table.
type RecordLister interface {
	ListRecords(ctx context.Context, table, view string) ([]airtable.Record, error)
}

// RecordUpdater pushes field updates back to the remote table. This is
// the remote sync sink: locally computed seat counts flow back through it.
type RecordUpdater interface {
	UpdateRecord(ctx context.Context, table, recordID string, fields any) error
}

// VendorResult summarizes a completed vendors run.
type VendorResult struct {
	Processed int
	Enriched  int
}

// VendorSyncer reconciles the remote software vendors table with the
// local store.
type VendorSyncer struct {
	records RecordLister
	sink    RecordUpdater
	store   *store.Store
	seats   SeatSources
}

// NewVendorSyncer creates a vendors syncer. sink may be nil to skip the
// remote write-back.
func NewVendorSyncer(records RecordLister, sink RecordUpdater, s *store.Store, seats SeatSources) *VendorSyncer {
	return &VendorSyncer{
		records: records,
		sink:    sink,
		store:   s,
		seats:   seats,
	}
}

// Run executes one reconciliation pass over the vendors table.
func (s *VendorSyncer) Run(ctx context.Context) (*VendorResult, error) {
	ctx = logging.WithJob(ctx, "vendors")
	log := logging.Ctx(ctx)

	records, err := s.records.ListRecords(ctx, airtable.VendorsTable, airtable.GridView)
	if err != nil {
		return nil, errors.WrapSync("vendors", "", err)
	}
	log.Info().Int("records", len(records)).Msg("listed remote vendor records")

	result := &VendorResult{}
	for _, record := range records {
		if err := s.reconcile(ctx, record, result); err != nil {
			return nil, err
		}
		result.Processed++
	}

	log.Info().
		Int("processed", result.Processed).
		Int("enriched", result.Enriched).
		Msg("vendors reconciliation complete")
	return result, nil
}

// reconcile merges a single remote record into the local store.
func (s *VendorSyncer) reconcile(ctx context.Context, record airtable.Record, result *VendorResult) error {
	// Forgiving decode: absent fields stay at their zero values.
	var vendor store.NewVendor
	if err := record.DecodeFields(&vendor); err != nil {
		return errors.WrapSync("vendors", record.ID, errors.WrapParse("json", "vendor record "+record.ID, err))
	}

	ctx = logging.WithRecord(ctx, vendor.Name)
	log := logging.Ctx(ctx)

	enriched := false
	if counter, ok := s.seats[vendor.Name]; ok {
		users, err := counter.SeatCount(ctx)
		if err != nil {
			return errors.WrapSync("vendors", vendor.Name, err)
		}
		log.Debug().Int("users", users).Msg("fetched live seat count")
		vendor.Users = users
		enriched = true
		result.Enriched++
	}

	row, err := s.store.UpsertVendor(ctx, &vendor)
	if err != nil {
		return errors.WrapSync("vendors", vendor.Name, err)
	}

	// First sync of this record: adopt the remote record id as linkage.
	if row.AirtableRecordID == "" {
		row.AirtableRecordID = record.ID
		if err := s.store.UpdateVendor(ctx, row); err != nil {
			return errors.WrapSync("vendors", vendor.Name, err)
		}
		log.Debug().Str("airtable_record_id", record.ID).Msg("backfilled remote linkage")
	}

	// Mirror the locally computed seat count to the remote base.
	if enriched && s.sink != nil {
		fields := map[string]any{"users": row.Users}
		if err := s.sink.UpdateRecord(ctx, airtable.VendorsTable, row.AirtableRecordID, fields); err != nil {
			return errors.WrapSync("vendors", vendor.Name, err)
		}
	}

	return nil
}
