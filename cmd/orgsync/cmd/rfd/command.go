// Package rfd provides the rfd command for browsing the request for
// discussion index.
package rfd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opshq/orgsync/internal/clients/github"
	"github.com/opshq/orgsync/internal/cmd/application"
	"github.com/opshq/orgsync/internal/rfd"
	"github.com/opshq/orgsync/pkg/logging"
)

// NewCommand creates the rfd command with its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rfd",
		Short: "Browse the request for discussion index",
	}

	cmd.AddCommand(newListCommand(app))

	return cmd
}

// newListCommand creates the `rfd list` command.
func newListCommand(app application.Application) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List RFDs from the index",
		Long: `List fetches the CSV index from the rfd repository and prints every
entry in ascending number order. Use --state to filter by lifecycle state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.SyncConfig()
			if err := cfg.GitHub.Validate(); err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			index, err := rfd.LoadIndex(ctx, github.New(cfg.GitHub))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NUMBER\tSTATE\tTITLE")
			for _, number := range index.Numbers() {
				entry, _ := index.Get(number)
				if state != "" && entry.State != state {
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", entry.Number, entry.State, entry.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "only show RFDs in this state")

	return cmd
}
