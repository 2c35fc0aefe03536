package sync

import (
	"context"
	"sort"

	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/internal/store"
	"github.com/opshq/orgsync/pkg/errors"
	"github.com/opshq/orgsync/pkg/logging"
)

// GroupResult summarizes a completed groups run.
type GroupResult struct {
	Processed int
}

// GroupSyncer seeds the groups defined in the configuration files into
// the local store. The vendors run depends on the "all" group being
// present for company-wide seat counts.
type GroupSyncer struct {
	store *store.Store
}

// NewGroupSyncer creates a groups syncer.
func NewGroupSyncer(s *store.Store) *GroupSyncer {
	return &GroupSyncer{store: s}
}

// Run upserts every configured group by name, in stable order.
func (s *GroupSyncer) Run(ctx context.Context, cfg *config.FileConfig) (*GroupResult, error) {
	ctx = logging.WithJob(ctx, "groups")
	log := logging.Ctx(ctx)

	names := make([]string, 0, len(cfg.Groups))
	for name := range cfg.Groups {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &GroupResult{}
	for _, name := range names {
		group := cfg.Groups[name]
		_, err := s.store.UpsertGroup(ctx, &store.NewGroup{
			Name:        group.Name,
			Description: group.Description,
			Members:     group.Members,
		})
		if err != nil {
			return nil, errors.WrapSync("groups", name, err)
		}
		result.Processed++
	}

	log.Info().Int("processed", result.Processed).Msg("groups reconciliation complete")
	return result, nil
}
