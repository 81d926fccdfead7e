package pluginsdk

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Host defaults for update fields the host treats as "not reported".
const (
	DefaultSignalLevel  = 12
	DefaultBatteryLevel = 255
)

// DeviceSpec describes a device to be created. The host derives anything not
// set here: DeviceID defaults to "000H000U" built from the hardware ID and
// unit, and a TypeName expands to the numeric triple.
type DeviceSpec struct {
	// Unit is the plugin index for the device. It cannot change and is the
	// key the host uses for the device collection. Must be below 256.
	Unit int
	// Name is appended to the hardware name to form the initial device name.
	Name string
	// TypeName sets Type, SubType and SwitchType from a well-known name.
	TypeName TypeName
	// Type, SubType and SwitchType set the numeric values directly. Only
	// needed when TypeName does not cover the device.
	Type       int
	SubType    int
	SwitchType SwitchType
	// Image overrides the default device icon.
	Image int
	// Options carries extra device options; selector switches require it.
	Options map[string]string
	// Used makes the device appear on the appropriate tabs immediately.
	Used bool
	// DeviceID overrides the host-derived external identifier.
	DeviceID string
	// Description is the free-form device description.
	Description string
}

// DeviceState is the host-owned view of a device. The host creates, mutates
// and destroys devices; the SDK only mirrors what the host reports.
type DeviceState struct {
	ID           int               `json:"id"`
	Unit         int               `json:"unit"`
	Name         string            `json:"name"`
	DeviceID     string            `json:"device_id"`
	NValue       float64           `json:"n_value"`
	SValue       string            `json:"s_value"`
	SignalLevel  int               `json:"signal_level"`
	BatteryLevel int               `json:"battery_level"`
	Image        int               `json:"image"`
	Type         int               `json:"type"`
	SubType      int               `json:"sub_type"`
	SwitchType   SwitchType        `json:"switch_type"`
	Used         bool              `json:"used"`
	TimedOut     bool              `json:"timed_out"`
	LastLevel    float64           `json:"last_level"`
	LastUpdate   time.Time         `json:"last_update"`
	Description  string            `json:"description"`
	Color        string            `json:"color,omitempty"`
	Options      map[string]string `json:"options,omitempty"`
}

// DeviceUpdate carries the fields of a device update. NValue and SValue are
// always sent; optional fields are pointers so the host can tell "unset"
// from zero.
type DeviceUpdate struct {
	NValue           float64           `json:"n_value"`
	SValue           string            `json:"s_value"`
	Image            *int              `json:"image,omitempty"`
	SignalLevel      int               `json:"signal_level"`
	BatteryLevel     int               `json:"battery_level"`
	Options          map[string]string `json:"options,omitempty"`
	TimedOut         *bool             `json:"timed_out,omitempty"`
	Name             string            `json:"name,omitempty"`
	TypeName         TypeName          `json:"type_name,omitempty"`
	Type             *int              `json:"type,omitempty"`
	SubType          *int              `json:"sub_type,omitempty"`
	SwitchType       *SwitchType       `json:"switch_type,omitempty"`
	Used             *bool             `json:"used,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Color            string            `json:"color,omitempty"`
	SuppressTriggers bool              `json:"suppress_triggers,omitempty"`
}

// UpdateOption configures an update beyond nValue/sValue.
type UpdateOption func(*DeviceUpdate)

func defaultUpdate(nValue float64, sValue string) DeviceUpdate {
	return DeviceUpdate{
		NValue:       nValue,
		SValue:       sValue,
		SignalLevel:  DefaultSignalLevel,
		BatteryLevel: DefaultBatteryLevel,
	}
}

// WithImage sets the custom image number.
func WithImage(image int) UpdateOption {
	return func(u *DeviceUpdate) { u.Image = &image }
}

// WithSignalLevel sets the device signal strength.
func WithSignalLevel(level int) UpdateOption {
	return func(u *DeviceUpdate) { u.SignalLevel = level }
}

// WithBatteryLevel sets the device battery strength.
func WithBatteryLevel(level int) UpdateOption {
	return func(u *DeviceUpdate) { u.BatteryLevel = level }
}

// WithOptions replaces the device options map.
func WithOptions(options map[string]string) UpdateOption {
	return func(u *DeviceUpdate) { u.Options = options }
}

// WithTimedOut marks the device as timed out (red header in the host UI).
func WithTimedOut(timedOut bool) UpdateOption {
	return func(u *DeviceUpdate) { u.TimedOut = &timedOut }
}

// WithName renames the device.
func WithName(name string) UpdateOption {
	return func(u *DeviceUpdate) { u.Name = name }
}

// WithTypeName changes the device type from a well-known name.
func WithTypeName(tn TypeName) UpdateOption {
	return func(u *DeviceUpdate) { u.TypeName = tn }
}

// WithTypeIDs changes the numeric type triple directly.
func WithTypeIDs(ids TypeIDs) UpdateOption {
	return func(u *DeviceUpdate) {
		t, st, sw := ids.Type, ids.SubType, ids.SwitchType
		u.Type = &t
		u.SubType = &st
		u.SwitchType = &sw
	}
}

// WithUsed sets the device Used flag.
func WithUsed(used bool) UpdateOption {
	return func(u *DeviceUpdate) { u.Used = &used }
}

// WithDescription sets the device description.
func WithDescription(desc string) UpdateOption {
	return func(u *DeviceUpdate) { u.Description = &desc }
}

// WithColor sets the current color string.
func WithColor(color string) UpdateOption {
	return func(u *DeviceUpdate) { u.Color = color }
}

// WithSuppressTriggers updates device attributes without firing
// notifications, scenes or event triggers. nValue and sValue are not written
// to the host database in this mode.
func WithSuppressTriggers() UpdateOption {
	return func(u *DeviceUpdate) { u.SuppressTriggers = true }
}

// Device wraps one host device. All operations pass straight through to the
// host; errors surface unchanged.
type Device struct {
	host DeviceHost

	mu    sync.RWMutex
	spec  DeviceSpec
	state DeviceState
}

// NewDevice binds a device spec to a host. The device does not exist on the
// host side until Create is called.
func NewDevice(host DeviceHost, spec DeviceSpec) *Device {
	return &Device{host: host, spec: spec, state: DeviceState{Unit: spec.Unit, Name: spec.Name}}
}

// Spec returns the spec the device was declared with.
func (d *Device) Spec() DeviceSpec {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.spec
}

// State returns the last host-reported state snapshot.
func (d *Device) State() DeviceState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Unit returns the plugin index for the device.
func (d *Device) Unit() int { return d.Spec().Unit }

// Create creates the device on the host.
func (d *Device) Create(ctx context.Context) error {
	spec := d.Spec()
	if spec.Unit <= 0 || spec.Unit > 255 {
		return fmt.Errorf("device unit %d out of range 1-255", spec.Unit)
	}
	if err := d.host.CreateDevice(ctx, spec); err != nil {
		return fmt.Errorf("create device %d: %w", spec.Unit, err)
	}
	return nil
}

// Update updates the current values on the host.
func (d *Device) Update(ctx context.Context, nValue float64, sValue string, opts ...UpdateOption) error {
	upd := defaultUpdate(nValue, sValue)
	for _, opt := range opts {
		opt(&upd)
	}
	unit := d.Unit()
	if err := d.host.UpdateDevice(ctx, unit, upd); err != nil {
		return fmt.Errorf("update device %d: %w", unit, err)
	}
	// In suppress mode the host does not write nValue/sValue, so the mirror
	// must not pretend it did.
	if !upd.SuppressTriggers {
		d.mu.Lock()
		d.state.NValue = upd.NValue
		d.state.SValue = upd.SValue
		d.mu.Unlock()
	}
	return nil
}

// Delete deletes the device on the host.
func (d *Device) Delete(ctx context.Context) error {
	unit := d.Unit()
	if err := d.host.DeleteDevice(ctx, unit); err != nil {
		return fmt.Errorf("delete device %d: %w", unit, err)
	}
	return nil
}

// Touch updates the device's last-seen time and nothing else. No events or
// notifications fire as a result.
func (d *Device) Touch(ctx context.Context) error {
	unit := d.Unit()
	if err := d.host.TouchDevice(ctx, unit); err != nil {
		return fmt.Errorf("touch device %d: %w", unit, err)
	}
	return nil
}

// Refresh re-reads the device values from the host database. Not normally
// required because values are updated when callbacks are invoked.
func (d *Device) Refresh(ctx context.Context) error {
	unit := d.Unit()
	state, err := d.host.RefreshDevice(ctx, unit)
	if err != nil {
		return fmt.Errorf("refresh device %d: %w", unit, err)
	}
	d.setState(state)
	return nil
}

func (d *Device) setState(state DeviceState) {
	d.mu.Lock()
	d.state = state
	d.mu.Unlock()
}

// DeviceCollection mirrors the host's unit-keyed device dictionary. The host
// owns device lifecycle; the collection only tracks what the host reports.
type DeviceCollection struct {
	mu      sync.RWMutex
	devices map[int]*Device
}

// NewDeviceCollection returns an empty collection.
func NewDeviceCollection() *DeviceCollection {
	return &DeviceCollection{devices: make(map[int]*Device)}
}

// Get returns the device for a unit, or nil.
func (c *DeviceCollection) Get(unit int) *Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.devices[unit]
}

// Put registers a device under its unit.
func (c *DeviceCollection) Put(d *Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices[d.Unit()] = d
}

// Remove drops the device for a unit.
func (c *DeviceCollection) Remove(unit int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.devices, unit)
}

// Units returns the registered units in ascending order.
func (c *DeviceCollection) Units() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	units := make([]int, 0, len(c.devices))
	for unit := range c.devices {
		units = append(units, unit)
	}
	sort.Ints(units)
	return units
}

// Len returns the number of devices.
func (c *DeviceCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.devices)
}

// ApplyState stores a host-reported state snapshot into the matching device,
// creating an entry if the host reports a device the plugin did not declare.
func (c *DeviceCollection) ApplyState(host DeviceHost, state DeviceState) *Device {
	c.mu.Lock()
	d, ok := c.devices[state.Unit]
	if !ok {
		d = NewDevice(host, DeviceSpec{Unit: state.Unit, Name: state.Name})
		c.devices[state.Unit] = d
	}
	c.mu.Unlock()
	d.setState(state)
	return d
}
