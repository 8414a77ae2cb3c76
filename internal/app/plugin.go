package app

import (
	"context"

	"github.com/bft-labs/shepherd/internal/ports"
)

// Plugin extends a running daemon. Plugins are initialized in registration
// order after the daemon has started and shut down in reverse order while it
// stops. They only run inside the detached process.
type Plugin interface {
	// Name returns a unique identifier for logging.
	Name() string

	// Initialize starts the plugin. ctx stays valid until Shutdown returns.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and releases its resources.
	Shutdown(ctx context.Context) error
}

// PluginConfig is passed to plugins during initialization.
type PluginConfig struct {
	// Logger is the daemon's logger.
	Logger ports.Logger

	// PIDFile is the pidfile path of the running daemon.
	PIDFile string

	// Trigger runs a registered event callback by name.
	Trigger func(ctx context.Context, name string) (bool, error)
}
