package sync

import (
	"context"

	"github.com/opshq/orgsync/internal/clients/github"
	"github.com/opshq/orgsync/internal/clients/googleadmin"
	"github.com/opshq/orgsync/internal/clients/okta"
	"github.com/opshq/orgsync/internal/clients/slackapi"
	"github.com/opshq/orgsync/internal/store"
)

// SeatCounter reports a live seat or user count from an enrichment source.
type SeatCounter interface {
	SeatCount(ctx context.Context) (int, error)
}

// SeatCounterFunc adapts a function to the SeatCounter interface.
type SeatCounterFunc func(ctx context.Context) (int, error)

// SeatCount implements SeatCounter.
func (f SeatCounterFunc) SeatCount(ctx context.Context) (int, error) {
	return f(ctx)
}

// groupSizeCounter reports the member count of a group in the local store.
// Vendors licensed for the whole company have as many seats as the "all"
// group has members.
type groupSizeCounter struct {
	store *store.Store
	group string
}

// SeatCount implements SeatCounter.
func (g *groupSizeCounter) SeatCount(ctx context.Context) (int, error) {
	grp, err := g.store.GetGroup(ctx, g.group)
	if err != nil {
		return 0, err
	}
	return len(grp.Members), nil
}

// SeatSources is the dispatch table from a vendor's natural key to the
// enrichment source that knows its live seat count. The set is closed:
// adding an enrichment source means adding an entry here.
type SeatSources map[string]SeatCounter

// NewSeatSources builds the seat source table from the live API clients
// and the local store.
func NewSeatSources(
	gh *github.Client,
	oktaClient *okta.Client,
	gsuite *googleadmin.Client,
	slack *slackapi.Client,
	s *store.Store,
) SeatSources {
	sources := SeatSources{
		"GitHub":           SeatCounterFunc(gh.OrgFilledSeats),
		"Okta":             SeatCounterFunc(oktaClient.CountUsers),
		"Google Workspace": SeatCounterFunc(gsuite.CountUsers),
		"Slack":            SeatCounterFunc(slack.CountBillableUsers),
	}
	for name, counter := range NewSeatSourcesForGroups(s) {
		sources[name] = counter
	}
	return sources
}

// NewSeatSourcesForGroups builds the store-backed entries of the dispatch
// table: vendors billed per employee, whose seat count is the size of the
// "all" group.
func NewSeatSourcesForGroups(s *store.Store) SeatSources {
	allGroup := &groupSizeCounter{store: s, group: "all"}
	return SeatSources{
		"Airtable":  allGroup,
		"Brex":      allGroup,
		"Gusto":     allGroup,
		"Expensify": allGroup,
	}
}
