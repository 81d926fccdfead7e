package pluginsdk

import (
	"context"
	"fmt"
	"sync"
)

// internalsVariableSuffix is appended to the hardware name to form the user
// variable holding the plugin's internal state.
const internalsVariableSuffix = "-InternalVariables"

// PluginHelper bundles the boilerplate most plugins repeat: debug toggling on
// start/stop, config dumping, log-level routing and internal state persisted
// in a host user variable.
type PluginHelper struct {
	deps   Dependencies
	params Parameters
	store  *UserVariableStore

	// StatusSupported downgrades Status lines to Log when false.
	StatusSupported bool
	// LogLevel gates WriteLog verbose lines.
	LogLevel LogLevel

	mu                sync.Mutex
	internalsDefaults map[string]any
	internals         map[string]any
}

// NewPluginHelper builds a helper. internalsDefaults seeds the persisted
// internal state the first time the plugin runs.
func NewPluginHelper(deps Dependencies, params Parameters, internalsDefaults map[string]any) *PluginHelper {
	client := NewAPIClientFromParameters(params)
	client.Logger = deps.Logger
	h := &PluginHelper{
		deps:   deps,
		params: params,
		store: NewUserVariableStore(UserVariableStoreConfig{
			Client: client,
			Logger: deps.Logger,
		}),
		StatusSupported:   true,
		LogLevel:          LogVerbose,
		internalsDefaults: internalsDefaults,
	}
	h.internals = copyInternals(internalsDefaults)
	return h
}

// Deps returns the host-provided dependencies.
func (h *PluginHelper) Deps() Dependencies { return h.deps }

// Parameters returns the plugin parameter snapshot.
func (h *PluginHelper) Parameters() Parameters { return h.params }

// Store returns the user variable store the helper persists through.
func (h *PluginHelper) Store() *UserVariableStore { return h.store }

// OnStart enables full framework debugging and dumps the configuration.
func (h *PluginHelper) OnStart(ctx context.Context, devices *DeviceCollection) error {
	if err := h.deps.Host.SetDebugLevels(ctx, DebugShowAll); err != nil {
		return fmt.Errorf("enable debugging: %w", err)
	}
	h.DumpConfigToLog(devices)
	return nil
}

// OnStop disables framework debugging.
func (h *PluginHelper) OnStop(ctx context.Context) error {
	return h.deps.Host.SetDebugLevels(ctx, DebugShowNone)
}

// DumpConfigToLog writes all non-empty parameters and the device collection
// to the host debug log.
func (h *PluginHelper) DumpConfigToLog(devices *DeviceCollection) {
	for key, value := range h.params.Raw() {
		if value == "" {
			continue
		}
		h.deps.Host.Debug(fmt.Sprintf("'%s':'%s'", key, value))
	}
	if devices == nil {
		return
	}
	h.deps.Host.Debug(fmt.Sprintf("Device count: %d", devices.Len()))
	for _, unit := range devices.Units() {
		state := devices.Get(unit).State()
		h.deps.Host.Debug(fmt.Sprintf("Device:           %d - %s", unit, state.Name))
		h.deps.Host.Debug(fmt.Sprintf("Device ID:       '%d'", state.ID))
		h.deps.Host.Debug(fmt.Sprintf("Device Name:     '%s'", state.Name))
		h.deps.Host.Debug(fmt.Sprintf("Device nValue:    %v", state.NValue))
		h.deps.Host.Debug(fmt.Sprintf("Device sValue:   '%s'", state.SValue))
		h.deps.Host.Debug(fmt.Sprintf("Device LastLevel: %v", state.LastLevel))
	}
}

// WriteLog routes a message to the host log honoring the helper's log level.
// Verbose lines are dropped unless LogLevel is verbose; Status lines fall
// back to Log when the host build has no status channel.
func (h *PluginHelper) WriteLog(message string, level LogLevel) {
	switch {
	case level == LogStatus, level == LogVerbose && h.LogLevel == LogVerbose:
		if h.StatusSupported {
			h.deps.Host.Status(message)
		} else {
			h.deps.Host.Log(message)
		}
	case level == LogNormal:
		h.deps.Host.Log(message)
	}
}

// internalsVariableName is the user variable holding this plugin's state.
func (h *PluginHelper) internalsVariableName() string {
	return h.params.Name + internalsVariableSuffix
}

// LoadInternals reads the persisted internal state from its host user
// variable, creating the variable from the defaults when missing. Unreadable
// state also resets to the defaults.
func (h *PluginHelper) LoadInternals(ctx context.Context) error {
	var loaded map[string]any
	found, err := h.store.GetJSON(ctx, h.internalsVariableName(), &loaded)
	if err != nil {
		if h.deps.Logger != nil {
			h.deps.Logger.Warn("internal state unreadable, resetting to defaults", "err", err.Error())
		}
		h.resetInternals()
		return h.SaveInternals(ctx)
	}
	if !found {
		h.WriteLog(fmt.Sprintf("User variable %s does not exist, creation requested", h.internalsVariableName()), LogVerbose)
		h.resetInternals()
		return h.SaveInternals(ctx)
	}

	h.mu.Lock()
	h.internals = copyInternals(h.internalsDefaults)
	for k, v := range loaded {
		h.internals[k] = v
	}
	h.mu.Unlock()
	return nil
}

// SaveInternals writes the internal state back to its host user variable.
func (h *PluginHelper) SaveInternals(ctx context.Context) error {
	h.mu.Lock()
	snapshot := copyInternals(h.internals)
	h.mu.Unlock()
	if err := h.store.SetJSON(ctx, h.internalsVariableName(), snapshot); err != nil {
		return fmt.Errorf("save internals: %w", err)
	}
	return nil
}

// Internal returns one internal state value.
func (h *PluginHelper) Internal(key string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.internals[key]
	return v, ok
}

// SetInternal sets one internal state value. Call SaveInternals to persist.
func (h *PluginHelper) SetInternal(key string, value any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.internals[key] = value
}

func (h *PluginHelper) resetInternals() {
	h.mu.Lock()
	h.internals = copyInternals(h.internalsDefaults)
	h.mu.Unlock()
}

func copyInternals(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
