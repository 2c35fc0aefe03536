// Package links provides the links command for generating short-link
// redirect configuration.
package links

import (
	"github.com/spf13/cobra"

	"github.com/opshq/orgsync/internal/cmd/application"
	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/internal/genfile"
	"github.com/opshq/orgsync/pkg/errors"
)

// NewCommand creates the links command with its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Manage short-link definitions",
	}

	cmd.AddCommand(newGenerateCommand(app))

	return cmd
}

// newGenerateCommand creates the `links generate` command.
func newGenerateCommand(app application.Application) *cobra.Command {
	var (
		files []string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the redirect map from link definitions",
		Long: `Generate reads short-link definitions from one or more TOML
configuration files and renders the redirect map, one "name target" line
per link and alias, sorted by name. The output carries a do-not-edit
header pointing back at the source configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(files) == 0 {
				return &errors.ConfigError{
					Component: "links",
					Message:   "at least one --file is required",
				}
			}

			fileCfg, err := config.LoadFiles(files)
			if err != nil {
				return err
			}

			return genfile.GenerateLinks(fileCfg, out)
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "TOML configuration file (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "generated", "output directory for the redirect map")

	return cmd
}
