package sync

import (
	"github.com/spf13/cobra"

	"github.com/opshq/orgsync/internal/cmd/application"
	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/internal/store"
	"github.com/opshq/orgsync/internal/sync"
	"github.com/opshq/orgsync/pkg/errors"
	"github.com/opshq/orgsync/pkg/logging"
)

// newGroupsCommand creates the `sync groups` command.
func newGroupsCommand(app application.Application) *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Load group definitions into the local store",
		Long: `Groups reads group definitions from one or more TOML configuration
files and upserts them into the local store by name. The "all" group is
what per-employee vendors bill against.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(files) == 0 {
				return &errors.ConfigError{
					Component: "groups",
					Message:   "at least one --file is required",
				}
			}

			fileCfg, err := config.LoadFiles(files)
			if err != nil {
				return err
			}

			cfg := app.SyncConfig()
			s, err := store.Open(cfg.StorePath)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			_, err = sync.NewGroupSyncer(s).Run(ctx, fileCfg)
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "TOML configuration file (repeatable)")

	return cmd
}
