package pluginsdk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceCreate(t *testing.T) {
	host := newFakeHost()
	d := NewDevice(host, SwitchSpec(3, "Relay"))

	require.NoError(t, d.Create(context.Background()))
	require.Len(t, host.createdDevices, 1)
	assert.Equal(t, 3, host.createdDevices[0].Unit)
	assert.Equal(t, "Relay", host.createdDevices[0].Name)
	assert.Equal(t, TypeNameSwitch, host.createdDevices[0].TypeName)
}

func TestDeviceCreateUnitRange(t *testing.T) {
	host := newFakeHost()

	err := NewDevice(host, SwitchSpec(0, "Bad")).Create(context.Background())
	assert.Error(t, err)

	err = NewDevice(host, SwitchSpec(256, "Bad")).Create(context.Background())
	assert.Error(t, err)

	assert.Empty(t, host.createdDevices)
}

func TestDeviceUpdateDefaults(t *testing.T) {
	host := newFakeHost()
	d := NewDevice(host, TemperatureSpec(5, "Outside"))

	require.NoError(t, d.Update(context.Background(), 0, "21.5"))

	upd, ok := host.updates[5]
	require.True(t, ok)
	assert.Equal(t, float64(0), upd.NValue)
	assert.Equal(t, "21.5", upd.SValue)
	assert.Equal(t, DefaultSignalLevel, upd.SignalLevel)
	assert.Equal(t, DefaultBatteryLevel, upd.BatteryLevel)
	assert.Nil(t, upd.Image)
	assert.Nil(t, upd.TimedOut)

	// the local snapshot tracks the last written values
	assert.Equal(t, float64(0), d.State().NValue)
	assert.Equal(t, "21.5", d.State().SValue)
}

func TestDeviceUpdateOptions(t *testing.T) {
	host := newFakeHost()
	d := NewDevice(host, SwitchSpec(7, "Siren"))

	err := d.Update(context.Background(), 1, "On",
		WithImage(9),
		WithSignalLevel(8),
		WithBatteryLevel(50),
		WithTimedOut(true),
		WithName("Siren Renamed"),
		WithDescription("garage siren"),
		WithColor(RGBColor(255, 0, 0).String()),
		WithSuppressTriggers(),
	)
	require.NoError(t, err)

	upd := host.updates[7]
	require.NotNil(t, upd.Image)
	assert.Equal(t, 9, *upd.Image)
	assert.Equal(t, 8, upd.SignalLevel)
	assert.Equal(t, 50, upd.BatteryLevel)
	require.NotNil(t, upd.TimedOut)
	assert.True(t, *upd.TimedOut)
	assert.Equal(t, "Siren Renamed", upd.Name)
	require.NotNil(t, upd.Description)
	assert.Equal(t, "garage siren", *upd.Description)
	assert.NotEmpty(t, upd.Color)
	assert.True(t, upd.SuppressTriggers)
}

func TestDeviceUpdateSuppressTriggersKeepsState(t *testing.T) {
	host := newFakeHost()
	d := NewDevice(host, SwitchSpec(8, "Sensor"))

	require.NoError(t, d.Update(context.Background(), 1, "On"))
	assert.Equal(t, "On", d.State().SValue)

	// attribute-only update: the host leaves nValue/sValue alone, so the
	// local snapshot must too
	require.NoError(t, d.Update(context.Background(), 0, "Off", WithSuppressTriggers()))
	assert.Equal(t, float64(1), d.State().NValue)
	assert.Equal(t, "On", d.State().SValue)

	upd := host.updates[8]
	assert.True(t, upd.SuppressTriggers)
}

func TestDeviceUpdateTypeIDs(t *testing.T) {
	host := newFakeHost()
	d := NewDevice(host, SwitchSpec(2, "Switch"))

	ids, err := LookupTypeName(TypeNameSelectorSwitch)
	require.NoError(t, err)
	require.NoError(t, d.Update(context.Background(), 0, "0", WithTypeIDs(ids)))

	upd := host.updates[2]
	require.NotNil(t, upd.Type)
	assert.Equal(t, 244, *upd.Type)
	require.NotNil(t, upd.SubType)
	assert.Equal(t, 62, *upd.SubType)
	require.NotNil(t, upd.SwitchType)
	assert.Equal(t, SwitchTypeSelector, *upd.SwitchType)
}

func TestDeviceUpdateErrorPassesThrough(t *testing.T) {
	host := newFakeHost()
	hostErr := errors.New("host unavailable")
	host.err = hostErr

	d := NewDevice(host, SwitchSpec(4, "Relay"))
	err := d.Update(context.Background(), 1, "On")
	require.Error(t, err)
	assert.ErrorIs(t, err, hostErr)

	// local state must not change on failure
	assert.Equal(t, "", d.State().SValue)
}

func TestDeviceDeleteTouchRefresh(t *testing.T) {
	host := newFakeHost()
	host.refreshStates[6] = DeviceState{Unit: 6, Name: "Gauge", NValue: 2, SValue: "33.3"}

	d := NewDevice(host, TemperatureSpec(6, "Gauge"))
	ctx := context.Background()

	require.NoError(t, d.Touch(ctx))
	assert.Equal(t, []int{6}, host.touchedUnits)

	require.NoError(t, d.Refresh(ctx))
	assert.Equal(t, float64(2), d.State().NValue)
	assert.Equal(t, "33.3", d.State().SValue)

	require.NoError(t, d.Delete(ctx))
	assert.Equal(t, []int{6}, host.deletedUnits)
}

func TestDeviceCollection(t *testing.T) {
	host := newFakeHost()
	c := NewDeviceCollection()

	assert.Nil(t, c.Get(1))
	assert.Equal(t, 0, c.Len())

	c.Put(NewDevice(host, SwitchSpec(3, "C")))
	c.Put(NewDevice(host, SwitchSpec(1, "A")))
	c.Put(NewDevice(host, SwitchSpec(2, "B")))

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []int{1, 2, 3}, c.Units())
	assert.Equal(t, "B", c.Get(2).Spec().Name)

	c.Remove(2)
	assert.Nil(t, c.Get(2))
	assert.Equal(t, []int{1, 3}, c.Units())
}

func TestDeviceCollectionApplyState(t *testing.T) {
	host := newFakeHost()
	c := NewDeviceCollection()
	c.Put(NewDevice(host, SwitchSpec(1, "Known")))

	// state for a declared device lands on it
	d := c.ApplyState(host, DeviceState{Unit: 1, NValue: 1, SValue: "On"})
	assert.Same(t, c.Get(1), d)
	assert.Equal(t, "On", c.Get(1).State().SValue)

	// state for an undeclared device creates an entry
	d = c.ApplyState(host, DeviceState{Unit: 9, Name: "Surprise", SValue: "Off"})
	require.NotNil(t, c.Get(9))
	assert.Same(t, c.Get(9), d)
	assert.Equal(t, "Surprise", c.Get(9).Spec().Name)
	assert.Equal(t, 2, c.Len())
}
