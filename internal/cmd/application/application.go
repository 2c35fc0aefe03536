// Package application defines the contract between the orgsync
// application layer and the command implementations, so commands can be
// tested with a mock instead of the concrete App type.
package application

import (
	"github.com/rs/zerolog"

	"github.com/opshq/orgsync/internal/config"
)

// Application provides the dependencies commands need.
// The App struct from cmd/orgsync/app implements this interface.
type Application interface {
	// Version returns the build version string.
	Version() string

	// Logger returns the configured application logger.
	Logger() *zerolog.Logger

	// SyncConfig returns the credentials and identifiers for the sync
	// jobs, resolved once at startup.
	SyncConfig() *config.Config
}

// Mock implements Application for command tests.
type Mock struct {
	VersionFunc    func() string
	LoggerFunc     func() *zerolog.Logger
	SyncConfigFunc func() *config.Config
}

// Version implements Application.
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// SyncConfig implements Application.
func (m *Mock) SyncConfig() *config.Config {
	if m.SyncConfigFunc != nil {
		return m.SyncConfigFunc()
	}
	return &config.Config{}
}
