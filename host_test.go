package pluginsdk

import (
	"context"
	"sync"
	"time"
)

// fakeHost records every pass-through so tests can assert the SDK forwards
// operations unchanged.
type fakeHost struct {
	mu sync.Mutex

	logLines    []string
	statusLines []string
	errorLines  []string
	debugLines  []string

	debugMask     DebugLevel
	heartbeat     time.Duration
	notifier      string
	trace         bool
	configuration PluginConfig

	createdDevices []DeviceSpec
	updates        map[int]DeviceUpdate
	deletedUnits   []int
	touchedUnits   []int
	refreshStates  map[int]DeviceState

	createdImages []string
	deletedImages []string

	connects    []ConnectionSpec
	listens     []ConnectionSpec
	sends       []fakeSend
	disconnects []string
	connecting  map[string]bool

	err error // when set, every operation fails with it
}

type fakeSend struct {
	Name    string
	Payload []byte
	Delay   time.Duration
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		updates:       make(map[int]DeviceUpdate),
		refreshStates: make(map[int]DeviceState),
		connecting:    make(map[string]bool),
	}
}

func (f *fakeHost) Log(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logLines = append(f.logLines, msg)
}

func (f *fakeHost) Status(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusLines = append(f.statusLines, msg)
}

func (f *fakeHost) Error(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorLines = append(f.errorLines, msg)
}

func (f *fakeHost) Debug(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.debugLines = append(f.debugLines, msg)
}

func (f *fakeHost) SetDebugLevels(ctx context.Context, levels ...DebugLevel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.debugMask = CombineDebugLevels(levels)
	return nil
}

func (f *fakeHost) SetHeartbeat(ctx context.Context, interval time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.heartbeat = interval
	return nil
}

func (f *fakeHost) RegisterNotifier(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.notifier = name
	return nil
}

func (f *fakeHost) SetTrace(ctx context.Context, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.trace = enabled
	return nil
}

func (f *fakeHost) LoadConfiguration(ctx context.Context) (PluginConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return PluginConfig{}, f.err
	}
	return f.configuration, nil
}

func (f *fakeHost) StoreConfiguration(ctx context.Context, cfg PluginConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.configuration = cfg
	return nil
}

func (f *fakeHost) CreateDevice(ctx context.Context, spec DeviceSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.createdDevices = append(f.createdDevices, spec)
	return nil
}

func (f *fakeHost) UpdateDevice(ctx context.Context, unit int, upd DeviceUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.updates[unit] = upd
	return nil
}

func (f *fakeHost) DeleteDevice(ctx context.Context, unit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deletedUnits = append(f.deletedUnits, unit)
	return nil
}

func (f *fakeHost) TouchDevice(ctx context.Context, unit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.touchedUnits = append(f.touchedUnits, unit)
	return nil
}

func (f *fakeHost) RefreshDevice(ctx context.Context, unit int) (DeviceState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return DeviceState{}, f.err
	}
	if state, ok := f.refreshStates[unit]; ok {
		return state, nil
	}
	return DeviceState{Unit: unit}, nil
}

func (f *fakeHost) CreateImage(ctx context.Context, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.createdImages = append(f.createdImages, filename)
	return nil
}

func (f *fakeHost) DeleteImage(ctx context.Context, base string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deletedImages = append(f.deletedImages, base)
	return nil
}

func (f *fakeHost) Connect(ctx context.Context, spec ConnectionSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.connects = append(f.connects, spec)
	return nil
}

func (f *fakeHost) Listen(ctx context.Context, spec ConnectionSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.listens = append(f.listens, spec)
	return nil
}

func (f *fakeHost) Send(ctx context.Context, name string, payload []byte, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sends = append(f.sends, fakeSend{Name: name, Payload: payload, Delay: delay})
	return nil
}

func (f *fakeHost) Disconnect(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.disconnects = append(f.disconnects, name)
	return nil
}

func (f *fakeHost) Connecting(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.connecting[name], nil
}
