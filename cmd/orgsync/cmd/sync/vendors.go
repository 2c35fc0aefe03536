package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/opshq/orgsync/internal/clients/airtable"
	"github.com/opshq/orgsync/internal/clients/github"
	"github.com/opshq/orgsync/internal/clients/googleadmin"
	"github.com/opshq/orgsync/internal/clients/okta"
	"github.com/opshq/orgsync/internal/clients/slackapi"
	"github.com/opshq/orgsync/internal/cmd/application"
	"github.com/opshq/orgsync/internal/notify"
	"github.com/opshq/orgsync/internal/store"
	"github.com/opshq/orgsync/internal/sync"
	"github.com/opshq/orgsync/pkg/logging"
)

// newVendorsCommand creates the `sync vendors` command.
func newVendorsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "Reconcile the software vendors table",
		Long: `Vendors lists the Software Vendors table from the finance Airtable
base, refreshes each vendor's live seat count from the matching SaaS API
(GitHub, Okta, Google Workspace, Slack, or the all@ group for per-employee
vendors), and upserts the results into the local store. Refreshed seat
counts are mirrored back to Airtable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVendors(cmd.Context(), app)
		},
	}
}

// runVendors wires the clients together and executes one vendors run.
func runVendors(ctx context.Context, app application.Application) error {
	cfg := app.SyncConfig()
	if err := cfg.ValidateForVendorSync(); err != nil {
		return err
	}

	// Token acquisition happens once here; every call in the run reuses
	// the same credentials.
	gsuite, err := googleadmin.New(ctx, cfg.GSuite)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	at := airtable.New(cfg.Airtable)
	seats := sync.NewSeatSources(
		github.New(cfg.GitHub),
		okta.New(cfg.Okta),
		gsuite,
		slackapi.New(cfg.Slack),
		s,
	)

	runID := uuid.NewString()
	ctx = logging.WithLogger(ctx, app.Logger())
	ctx = logging.WithRunID(ctx, runID)

	result, err := sync.NewVendorSyncer(at, at, s, seats).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Slack.OpsWebhookURL != "" {
		msg := notify.Message{Text: fmt.Sprintf(
			"vendors sync %s complete: %d records processed, %d enriched",
			runID, result.Processed, result.Enriched)}
		if err := notify.New().Post(ctx, cfg.Slack.OpsWebhookURL, msg); err != nil {
			// The run already succeeded; a lost announcement is not a failure.
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to post run notification")
		}
	}

	return nil
}
