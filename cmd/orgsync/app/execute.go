package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	linkscmd "github.com/opshq/orgsync/cmd/orgsync/cmd/links"
	rfdcmd "github.com/opshq/orgsync/cmd/orgsync/cmd/rfd"
	synccmd "github.com/opshq/orgsync/cmd/orgsync/cmd/sync"
)

// Execute runs the orgsync CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "orgsync",
		Short:   "Business operations sync jobs",
		Version: a.version,
		Long: `Orgsync runs the periodic synchronization jobs between the company's
Airtable bases, the local record store, and the SaaS APIs (Google
Workspace, Okta, Slack, GitHub).

Jobs are designed to be triggered by cron or by hand; each invocation
runs one job to completion and exits non-zero on the first failure.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.orgsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("orgsync {{.Version}}\n")

	rootCmd.AddCommand(synccmd.NewCommand(a))
	rootCmd.AddCommand(rfdcmd.NewCommand(a))
	rootCmd.AddCommand(linkscmd.NewCommand(a))

	return rootCmd
}

// setupCommand reinitializes the logger once flags are parsed.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	a.config.Verbose, _ = cmd.Flags().GetBool("verbose")
	a.config.Quiet, _ = cmd.Flags().GetBool("quiet")
	a.config.NoColor, _ = cmd.Flags().GetBool("no-color")
	if logLevel, _ := cmd.Flags().GetString("log-level"); logLevel != "" {
		a.config.LogLevel = logLevel
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// ExitOnError prints the error cause and exits non-zero. A failed run
// produces no partial output beyond what was already committed.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "orgsync: %v\n", err)
	os.Exit(1)
}
