package sync

import (
	"github.com/spf13/cobra"

	"github.com/opshq/orgsync/internal/cmd/application"
	"github.com/opshq/orgsync/internal/genfile"
	"github.com/opshq/orgsync/internal/store"
	"github.com/opshq/orgsync/pkg/logging"
)

// newExportCommand creates the `sync export` command.
func newExportCommand(app application.Application) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a YAML snapshot of the vendors table",
		Long: `Export renders the local vendors table as a generated YAML file,
sorted case-insensitively by name. The file carries a do-not-edit header
and is intended to be committed alongside the configuration it was
generated from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.SyncConfig()
			s, err := store.Open(cfg.StorePath)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			vendors, err := s.ListVendors(ctx)
			if err != nil {
				return err
			}

			return genfile.ExportVendorSnapshot(vendors, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "generated/vendors.yaml", "output path for the snapshot")

	return cmd
}
