package pluginsdk

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

// NewNoopHost returns a Host implementation that discards all operations.
// Useful for local plugin development without a running host.
func NewNoopHost() Host { return &noopHost{} }

type noopHost struct{}

func (n *noopHost) Log(msg string)    {}
func (n *noopHost) Status(msg string) {}
func (n *noopHost) Error(msg string)  {}
func (n *noopHost) Debug(msg string)  {}

func (n *noopHost) SetDebugLevels(ctx context.Context, levels ...DebugLevel) error { return nil }
func (n *noopHost) SetHeartbeat(ctx context.Context, interval time.Duration) error { return nil }
func (n *noopHost) RegisterNotifier(ctx context.Context, name string) error        { return nil }
func (n *noopHost) SetTrace(ctx context.Context, enabled bool) error               { return nil }
func (n *noopHost) LoadConfiguration(ctx context.Context) (PluginConfig, error) {
	return PluginConfig{}, nil
}
func (n *noopHost) StoreConfiguration(ctx context.Context, cfg PluginConfig) error { return nil }

func (n *noopHost) CreateDevice(ctx context.Context, spec DeviceSpec) error            { return nil }
func (n *noopHost) UpdateDevice(ctx context.Context, unit int, upd DeviceUpdate) error { return nil }
func (n *noopHost) DeleteDevice(ctx context.Context, unit int) error                   { return nil }
func (n *noopHost) TouchDevice(ctx context.Context, unit int) error                    { return nil }
func (n *noopHost) RefreshDevice(ctx context.Context, unit int) (DeviceState, error) {
	return DeviceState{Unit: unit}, nil
}

func (n *noopHost) CreateImage(ctx context.Context, filename string) error { return nil }
func (n *noopHost) DeleteImage(ctx context.Context, base string) error     { return nil }

func (n *noopHost) Connect(ctx context.Context, spec ConnectionSpec) error { return nil }
func (n *noopHost) Listen(ctx context.Context, spec ConnectionSpec) error  { return nil }
func (n *noopHost) Send(ctx context.Context, name string, payload []byte, delay time.Duration) error {
	return nil
}
func (n *noopHost) Disconnect(ctx context.Context, name string) error { return nil }
func (n *noopHost) Connecting(ctx context.Context, name string) (bool, error) {
	return false, nil
}

// NewStdLogger returns a simple Logger backed by the standard library log
// package. The host bridge should provide a structured logger in production.
func NewStdLogger() Logger {
	l := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	return &stdLogger{l: l}
}

type stdLogger struct {
	l  *log.Logger
	mu sync.Mutex
}

func (s *stdLogger) Debug(msg string, kv ...any) { s.printf("DEBUG", msg, kv...) }
func (s *stdLogger) Info(msg string, kv ...any)  { s.printf("INFO", msg, kv...) }
func (s *stdLogger) Warn(msg string, kv ...any)  { s.printf("WARN", msg, kv...) }
func (s *stdLogger) Error(msg string, kv ...any) { s.printf("ERROR", msg, kv...) }

func (s *stdLogger) printf(level, msg string, kv ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(kv) == 0 {
		s.l.Printf("%s %s", level, msg)
		return
	}
	s.l.Printf("%s %s %v", level, msg, kv)
}

// NewSystemClock returns a Clock that uses time.Now().
func NewSystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
