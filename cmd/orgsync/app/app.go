// Package app provides the application context and dependency wiring for
// the orgsync CLI: configuration loaded once at startup, a configured
// logger, and the cobra command tree.
package app

import (
	"github.com/rs/zerolog"

	"github.com/opshq/orgsync/internal/config"
	"github.com/opshq/orgsync/pkg/errors"
)

// App represents the orgsync application with all its dependencies.
type App struct {
	version string

	// CLI-level configuration (flags, logging).
	config *Config

	// Credentials and identifiers for the sync jobs, resolved once at
	// startup and passed down explicitly.
	syncConfig *config.Config

	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version string) (*App, error) {
	cfg, syncCfg, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}

	app := &App{
		version:    version,
		config:     cfg,
		syncConfig: syncCfg,
	}

	logger := NewLogger(cfg)
	app.logger = &logger

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the CLI-level configuration.
func (a *App) Config() *Config {
	return a.config
}

// SyncConfig returns the sync job configuration.
func (a *App) SyncConfig() *config.Config {
	return a.syncConfig
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}
