package turingcv

import "context"

// Plugin extends an instance with components that live as long as it runs,
// such as file watchers or hardware panels.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called by Start before the first clock edge. An error
	// aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called when the instance stops, in reverse registration
	// order.
	Shutdown(ctx context.Context) error
}

// PluginConfig is passed to Plugin.Initialize.
type PluginConfig struct {
	Config Config
	Logger Logger
}
