package daemon

import "context"

// BasePlugin provides no-op Initialize and Shutdown methods for embedding in
// plugins that only need one of them.
type BasePlugin struct {
	PluginName string
}

// Name returns PluginName.
func (b BasePlugin) Name() string { return b.PluginName }

// Initialize does nothing.
func (BasePlugin) Initialize(ctx context.Context, cfg PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(ctx context.Context) error { return nil }
