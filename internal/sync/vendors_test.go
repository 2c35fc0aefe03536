package sync_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opshq/orgsync/internal/clients/airtable"
	"github.com/opshq/orgsync/internal/store"
	"github.com/opshq/orgsync/internal/sync"
	"github.com/opshq/orgsync/pkg/errors"
)

// fakeLister serves a fixed remote snapshot.
type fakeLister struct {
	records []airtable.Record
	err     error
}

func (f *fakeLister) ListRecords(_ context.Context, _, _ string) ([]airtable.Record, error) {
	return f.records, f.err
}

// fakeSink records remote write-backs.
type fakeSink struct {
	updates map[string]map[string]any
}

func newFakeSink() *fakeSink {
	return &fakeSink{updates: map[string]map[string]any{}}
}

func (f *fakeSink) UpdateRecord(_ context.Context, _, recordID string, fields any) error {
	f.updates[recordID] = fields.(map[string]any)
	return nil
}

// spyCounter is a SeatCounter that records whether it was called.
type spyCounter struct {
	count  int
	err    error
	called int
}

func (s *spyCounter) SeatCount(context.Context) (int, error) {
	s.called++
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

func record(id, fieldsJSON string) airtable.Record {
	return airtable.Record{ID: id, Fields: json.RawMessage(fieldsJSON)}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fixture is the three-vendor remote snapshot used by several tests.
func fixture() []airtable.Record {
	return []airtable.Record{
		record("rec1", `{"name": "Acme", "status": "active", "flat_cost_per_month": 99.5}`),
		record("rec2", `{"name": "GitHub", "status": "active", "cost_per_user_per_month": 21}`),
		record("rec3", `{"name": "Globex", "status": "trialing"}`),
	}
}

func TestUpsertCorrectness(t *testing.T) {
	s := openTestStore(t)
	syncer := sync.NewVendorSyncer(&fakeLister{records: []airtable.Record{
		record("recXYZ", `{"name": "Acme", "status": "active"}`),
	}}, nil, s, sync.SeatSources{})

	result, err := syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	n, err := s.CountVendors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	v, err := s.GetVendor(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "active", v.Status)
	assert.Equal(t, "recXYZ", v.AirtableRecordID)
}

func TestIdempotentRuns(t *testing.T) {
	s := openTestStore(t)
	ghSeats := &spyCounter{count: 42}
	syncer := sync.NewVendorSyncer(&fakeLister{records: fixture()}, newFakeSink(), s,
		sync.SeatSources{"GitHub": ghSeats})

	_, err := syncer.Run(context.Background())
	require.NoError(t, err)
	first, err := s.ListVendors(context.Background())
	require.NoError(t, err)

	_, err = syncer.Run(context.Background())
	require.NoError(t, err)
	second, err := s.ListVendors(context.Background())
	require.NoError(t, err)

	// Same rows, same ids, same linkage: the second pass changed nothing.
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].AirtableRecordID, second[i].AirtableRecordID)
		assert.Equal(t, first[i].Users, second[i].Users)
	}
}

func TestEnrichmentDispatch(t *testing.T) {
	for _, seats := range []int{0, 1, 7, 1500} {
		ghSeats := &spyCounter{count: seats}
		s := openTestStore(t)
		syncer := sync.NewVendorSyncer(&fakeLister{records: []airtable.Record{
			record("rec2", `{"name": "GitHub", "users": 3}`),
		}}, nil, s, sync.SeatSources{"GitHub": ghSeats})

		_, err := syncer.Run(context.Background())
		require.NoError(t, err)

		v, err := s.GetVendor(context.Background(), "GitHub")
		require.NoError(t, err)
		assert.Equal(t, seats, v.Users, "live count replaces the decoded value")
		assert.Equal(t, 1, ghSeats.called)
	}
}

func TestNoDispatchMatchLeavesDefault(t *testing.T) {
	ghSeats := &spyCounter{count: 42}
	s := openTestStore(t)
	syncer := sync.NewVendorSyncer(&fakeLister{records: []airtable.Record{
		record("rec9", `{"name": "Initech", "status": "active"}`),
	}}, nil, s, sync.SeatSources{"GitHub": ghSeats})

	_, err := syncer.Run(context.Background())
	require.NoError(t, err)

	v, err := s.GetVendor(context.Background(), "Initech")
	require.NoError(t, err)
	assert.Zero(t, v.Users, "unmatched vendor keeps the decoded default")
	assert.Zero(t, ghSeats.called, "no enrichment call for unmatched vendor")
}

func TestForgivingDecode(t *testing.T) {
	s := openTestStore(t)
	syncer := sync.NewVendorSyncer(&fakeLister{records: []airtable.Record{
		record("rec1", `{"name": "Sparse"}`),
	}}, nil, s, sync.SeatSources{})

	_, err := syncer.Run(context.Background())
	require.NoError(t, err)

	v, err := s.GetVendor(context.Background(), "Sparse")
	require.NoError(t, err)
	assert.Empty(t, v.Status)
	assert.Empty(t, v.Website)
	assert.False(t, v.HasOktaIntegration)
	assert.Zero(t, v.Users)
	assert.Zero(t, v.FlatCostPerMonth)
	assert.Empty(t, v.Groups)
}

func TestFailurePropagationAbortsRun(t *testing.T) {
	// The enrichment source for the second record fails. The first record
	// stays committed, the third is never processed. This is the intended
	// all-or-nothing batch behavior, not a bug to paper over.
	s := openTestStore(t)
	failing := &spyCounter{err: &errors.APIError{Service: "github", StatusCode: 500, Message: "boom"}}
	syncer := sync.NewVendorSyncer(&fakeLister{records: fixture()}, nil, s,
		sync.SeatSources{"GitHub": failing})

	_, err := syncer.Run(context.Background())
	require.Error(t, err)

	var syncErr *errors.SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, "GitHub", syncErr.Record)

	_, err = s.GetVendor(context.Background(), "Acme")
	assert.NoError(t, err, "record before the failure is committed")
	_, err = s.GetVendor(context.Background(), "Globex")
	assert.True(t, errors.IsNotFound(err), "record after the failure is untouched")
}

func TestListFailureIsFatal(t *testing.T) {
	s := openTestStore(t)
	syncer := sync.NewVendorSyncer(&fakeLister{err: &errors.APIError{Service: "airtable", StatusCode: 401, Message: "no"}}, nil, s, sync.SeatSources{})

	_, err := syncer.Run(context.Background())
	require.Error(t, err)

	n, countErr := s.CountVendors(context.Background())
	require.NoError(t, countErr)
	assert.Zero(t, n)
}

func TestLinkageSurvivesChangedFields(t *testing.T) {
	s := openTestStore(t)
	lister := &fakeLister{records: []airtable.Record{
		record("recXYZ", `{"name": "Acme", "status": "active"}`),
	}}
	syncer := sync.NewVendorSyncer(lister, nil, s, sync.SeatSources{})

	_, err := syncer.Run(context.Background())
	require.NoError(t, err)

	// Remote fields change, record id stays.
	lister.records = []airtable.Record{
		record("recXYZ", `{"name": "Acme", "status": "churned"}`),
	}
	_, err = syncer.Run(context.Background())
	require.NoError(t, err)

	v, err := s.GetVendor(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "churned", v.Status)
	assert.Equal(t, "recXYZ", v.AirtableRecordID)
}

func TestWriteBackMirrorsSeatCount(t *testing.T) {
	s := openTestStore(t)
	sink := newFakeSink()
	syncer := sync.NewVendorSyncer(&fakeLister{records: fixture()}, sink, s,
		sync.SeatSources{"GitHub": &spyCounter{count: 42}})

	_, err := syncer.Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, sink.updates, "rec2")
	assert.EqualValues(t, 42, sink.updates["rec2"]["users"])
	assert.NotContains(t, sink.updates, "rec1", "unenriched records are not written back")
}

func TestGroupSizeEnrichment(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpsertGroup(context.Background(), &store.NewGroup{
		Name:    "all",
		Members: []string{"jess", "robin", "sam", "alex"},
	})
	require.NoError(t, err)

	// Build the real dispatch table shape: Brex resolves through the
	// local "all" group. Only the group-backed entries matter here, so
	// live API clients are omitted from the table.
	gsrc := sync.SeatSources{}
	for name, counter := range sync.NewSeatSourcesForGroups(s) {
		gsrc[name] = counter
	}

	syncer := sync.NewVendorSyncer(&fakeLister{records: []airtable.Record{
		record("rec5", `{"name": "Brex", "status": "active"}`),
	}}, nil, s, gsrc)

	_, err = syncer.Run(context.Background())
	require.NoError(t, err)

	v, err := s.GetVendor(context.Background(), "Brex")
	require.NoError(t, err)
	assert.Equal(t, 4, v.Users)
}
