package pluginsdk

import "context"

// Plugin is the callback surface the host invokes over a plugin's lifetime.
// OnStart receives the PluginContext; everything the plugin needs afterwards
// should be kept from there.
type Plugin interface {
	// Key is the unique short name for the plugin, matching its package key.
	Key() string
	// Version is the plugin version string, e.g. "1.0.0".
	Version() string

	OnStart(ctx context.Context, pc *PluginContext) error
	OnStop(ctx context.Context) error
	OnHeartbeat(ctx context.Context) error
	OnCommand(ctx context.Context, cmd CommandEvent) error
}

// ConnectionHandler is implemented by plugins that use host connections.
type ConnectionHandler interface {
	OnConnect(ctx context.Context, ev ConnectionEvent) error
	OnMessage(ctx context.Context, ev MessageEvent) error
	OnDisconnect(ctx context.Context, ev ConnectionEvent) error
}

// NotificationHandler is implemented by plugins registered as a notifier.
type NotificationHandler interface {
	OnNotification(ctx context.Context, n NotificationEvent) error
}

// DeviceEventHandler is implemented by plugins that want host-side device
// lifecycle changes (web UI edits included).
type DeviceEventHandler interface {
	OnDeviceAdded(ctx context.Context, state DeviceState) error
	OnDeviceModified(ctx context.Context, state DeviceState) error
	OnDeviceRemoved(ctx context.Context, unit int) error
}

// SecurityEventHandler is implemented by plugins that react to host security
// panel changes.
type SecurityEventHandler interface {
	OnSecurityEvent(ctx context.Context, ev SecurityEvent) error
}

// PluginContext carries everything the host materializes for a running
// plugin: dependencies plus the host-owned collections, exposed unchanged.
type PluginContext struct {
	Deps       Dependencies
	Parameters Parameters
	Settings   Settings
	Devices    *DeviceCollection
	Images     *ImageCollection
}

// NewPluginContext assembles a context from host-provided raw material.
func NewPluginContext(deps Dependencies, params map[string]string, settings map[string]string) *PluginContext {
	return &PluginContext{
		Deps:       deps,
		Parameters: ParametersFromMap(params),
		Settings:   Settings(settings),
		Devices:    NewDeviceCollection(),
		Images:     NewImageCollection(),
	}
}
