package pluginsdk

import (
	"context"
	"time"
)

// HostLog is the host log surface. Debug lines are only written when
// verbose debugging is enabled on the host side.
type HostLog interface {
	Log(msg string)
	Status(msg string)
	Error(msg string)
	Debug(msg string)
}

// FrameworkHost carries the plugin-framework controls the host exposes.
type FrameworkHost interface {
	// SetDebugLevels sets the host debug mask; see CombineDebugLevels.
	SetDebugLevels(ctx context.Context, levels ...DebugLevel) error
	// SetHeartbeat sets the heartbeat interval. The host logs complaints for
	// intervals above 30 seconds but still honors them.
	SetHeartbeat(ctx context.Context, interval time.Duration) error
	// RegisterNotifier makes the plugin appear as a notification target on
	// the host's device notification pages.
	RegisterNotifier(ctx context.Context, name string) error
	// SetTrace toggles host line-level execution tracing for the plugin.
	SetTrace(ctx context.Context, enabled bool) error
	// LoadConfiguration returns the plugin's host-persisted configuration
	// blob. Not to be confused with Parameters, which are read-only.
	LoadConfiguration(ctx context.Context) (PluginConfig, error)
	// StoreConfiguration replaces the plugin's host-persisted configuration.
	StoreConfiguration(ctx context.Context, cfg PluginConfig) error
}

// DeviceHost carries the host device-collection operations.
type DeviceHost interface {
	CreateDevice(ctx context.Context, spec DeviceSpec) error
	UpdateDevice(ctx context.Context, unit int, upd DeviceUpdate) error
	DeleteDevice(ctx context.Context, unit int) error
	TouchDevice(ctx context.Context, unit int) error
	RefreshDevice(ctx context.Context, unit int) (DeviceState, error)
}

// ImageHost carries the host image-collection operations.
type ImageHost interface {
	// CreateImage loads an icon zip shipped alongside the plugin into the
	// host's custom image table.
	CreateImage(ctx context.Context, filename string) error
	DeleteImage(ctx context.Context, base string) error
}

// ConnectionHost carries the host connection operations. The host owns all
// transports; the SDK only names them.
type ConnectionHost interface {
	Connect(ctx context.Context, spec ConnectionSpec) error
	Listen(ctx context.Context, spec ConnectionSpec) error
	Send(ctx context.Context, name string, payload []byte, delay time.Duration) error
	Disconnect(ctx context.Context, name string) error
	Connecting(ctx context.Context, name string) (bool, error)
}

// Host is the complete plugin API the host runtime provides. All behavior
// lives on the host side; every method is a pass-through and failures
// propagate unchanged.
type Host interface {
	HostLog
	FrameworkHost
	DeviceHost
	ImageHost
	ConnectionHost
}
