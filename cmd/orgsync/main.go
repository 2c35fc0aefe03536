// Package main provides the entry point for the orgsync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/opshq/orgsync/cmd/orgsync/app"
)

// Version information populated by goreleaser.
var version = "dev"

func main() {
	application, err := app.New(version)
	if err != nil {
		app.ExitOnError(err)
	}

	// Signal handling for graceful shutdown.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
