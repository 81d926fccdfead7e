package pluginsdk

import "time"

// Dependencies are handed to a plugin at start. The Host is the real plugin
// API; Logger and Clock exist so plugin code stays testable.
type Dependencies struct {
	Host   Host
	Logger Logger
	Clock  Clock
}

// Logger is the SDK-side structured logger. Host log routing happens
// separately through HostLog.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type Clock interface {
	Now() time.Time
}
