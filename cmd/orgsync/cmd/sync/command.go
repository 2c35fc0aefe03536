// Package sync implements the `orgsync sync` command tree.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/opshq/orgsync/internal/cmd/application"
)

// NewCommand creates the sync command with its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a reconciliation job",
		Long: `Sync runs one reconciliation job to completion.

Each job lists the remote records, enriches them with live data from the
SaaS APIs, and upserts the result into the local store. The first failure
aborts the job; records processed before the failure stay committed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newVendorsCommand(app))
	cmd.AddCommand(newGroupsCommand(app))
	cmd.AddCommand(newExportCommand(app))

	return cmd
}
