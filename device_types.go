package pluginsdk

import "fmt"

// TypeName is one of the well-known device type names the host understands.
// Creating a device from a TypeName lets the host fill in the numeric Type,
// SubType and SwitchType values.
type TypeName string

const (
	TypeNameAirQuality         TypeName = "Air Quality"
	TypeNameAlert              TypeName = "Alert"
	TypeNameBarometer          TypeName = "Barometer"
	TypeNameCounterIncremental TypeName = "Counter Incremental"
	TypeNameContact            TypeName = "Contact"
	TypeNameCurrentAmpere      TypeName = "Current/Ampere"
	TypeNameCurrentSingle      TypeName = "Current (Single)"
	TypeNameCustom             TypeName = "Custom"
	TypeNameDimmer             TypeName = "Dimmer"
	TypeNameDistance           TypeName = "Distance"
	TypeNameGas                TypeName = "Gas"
	TypeNameHumidity           TypeName = "Humidity"
	TypeNameIllumination       TypeName = "Illumination"
	TypeNameKWh                TypeName = "kWh"
	TypeNameLeafWetness        TypeName = "Leaf Wetness"
	TypeNameMotion             TypeName = "Motion"
	TypeNamePercentage         TypeName = "Percentage"
	TypeNamePushOn             TypeName = "Push On"
	TypeNamePushOff            TypeName = "Push Off"
	TypeNamePressure           TypeName = "Pressure"
	TypeNameRain               TypeName = "Rain"
	TypeNameSelectorSwitch     TypeName = "Selector Switch"
	TypeNameSoilMoisture       TypeName = "Soil Moisture"
	TypeNameSolarRadiation     TypeName = "Solar Radiation"
	TypeNameSoundLevel         TypeName = "Sound Level"
	TypeNameSwitch             TypeName = "Switch"
	TypeNameTemperature        TypeName = "Temperature"
	TypeNameTempHum            TypeName = "Temp+Hum"
	TypeNameTempHumBaro        TypeName = "Temp+Hum+Baro"
	TypeNameText               TypeName = "Text"
	TypeNameUsage              TypeName = "Usage"
	TypeNameUV                 TypeName = "UV"
	TypeNameVisibility         TypeName = "Visibility"
	TypeNameVoltage            TypeName = "Voltage"
	TypeNameWaterflow          TypeName = "Waterflow"
	TypeNameWind               TypeName = "Wind"
	TypeNameWindTempChill      TypeName = "Wind+Temp+Chill"
)

// TypeIDs is the numeric (Type, SubType, SwitchType) triple the host stores
// for a device.
type TypeIDs struct {
	Type       int
	SubType    int
	SwitchType SwitchType
}

// typeNameIDs mirrors the host's TypeName expansion.
var typeNameIDs = map[TypeName]TypeIDs{
	TypeNameAirQuality:         {Type: 249, SubType: 1},
	TypeNameAlert:              {Type: 243, SubType: 22},
	TypeNameBarometer:          {Type: 243, SubType: 26},
	TypeNameCounterIncremental: {Type: 243, SubType: 28},
	TypeNameContact:            {Type: 244, SubType: 73, SwitchType: SwitchTypeContact},
	TypeNameCurrentAmpere:      {Type: 89, SubType: 1},
	TypeNameCurrentSingle:      {Type: 243, SubType: 23},
	TypeNameCustom:             {Type: 243, SubType: 31},
	TypeNameDimmer:             {Type: 244, SubType: 73, SwitchType: SwitchTypeDimmer},
	TypeNameDistance:           {Type: 243, SubType: 27},
	TypeNameGas:                {Type: 251, SubType: 2},
	TypeNameHumidity:           {Type: 81, SubType: 1},
	TypeNameIllumination:       {Type: 246, SubType: 1},
	TypeNameKWh:                {Type: 243, SubType: 29},
	TypeNameLeafWetness:        {Type: 101, SubType: 1},
	TypeNameMotion:             {Type: 244, SubType: 73, SwitchType: SwitchTypeMotionSensor},
	TypeNamePercentage:         {Type: 243, SubType: 6},
	TypeNamePushOn:             {Type: 244, SubType: 73, SwitchType: SwitchTypePushOn},
	TypeNamePushOff:            {Type: 244, SubType: 73, SwitchType: SwitchTypePushOff},
	TypeNamePressure:           {Type: 243, SubType: 9},
	TypeNameRain:               {Type: 85, SubType: 1},
	TypeNameSelectorSwitch:     {Type: 244, SubType: 62, SwitchType: SwitchTypeSelector},
	TypeNameSoilMoisture:       {Type: 102, SubType: 1},
	TypeNameSolarRadiation:     {Type: 243, SubType: 20},
	TypeNameSoundLevel:         {Type: 243, SubType: 24},
	TypeNameSwitch:             {Type: 244, SubType: 73, SwitchType: SwitchTypeOnOff},
	TypeNameTemperature:        {Type: 80, SubType: 5},
	TypeNameTempHum:            {Type: 82, SubType: 1},
	TypeNameTempHumBaro:        {Type: 84, SubType: 1},
	TypeNameText:               {Type: 243, SubType: 19},
	TypeNameUsage:              {Type: 248, SubType: 1},
	TypeNameUV:                 {Type: 87, SubType: 1},
	TypeNameVisibility:         {Type: 243, SubType: 11},
	TypeNameVoltage:            {Type: 243, SubType: 8},
	TypeNameWaterflow:          {Type: 243, SubType: 30},
	TypeNameWind:               {Type: 86, SubType: 1},
	TypeNameWindTempChill:      {Type: 86, SubType: 4},
}

// LookupTypeName resolves a TypeName to its numeric triple.
func LookupTypeName(name TypeName) (TypeIDs, error) {
	ids, ok := typeNameIDs[name]
	if !ok {
		return TypeIDs{}, fmt.Errorf("unknown type name %q", name)
	}
	return ids, nil
}

// TypeNames returns all well-known type names.
func TypeNames() []TypeName {
	names := make([]TypeName, 0, len(typeNameIDs))
	for name := range typeNameIDs {
		names = append(names, name)
	}
	return names
}

// SwitchSpec builds a device spec for a plain on/off switch.
func SwitchSpec(unit int, name string) DeviceSpec {
	return specFor(unit, name, TypeNameSwitch)
}

// DimmerSpec builds a device spec for a dimmable switch.
func DimmerSpec(unit int, name string) DeviceSpec {
	return specFor(unit, name, TypeNameDimmer)
}

// SelectorSpec builds a device spec for a selector switch with the given
// level names. Level 0 is the off level.
func SelectorSpec(unit int, name string, levelNames []string) DeviceSpec {
	spec := specFor(unit, name, TypeNameSelectorSwitch)
	spec.Options = SelectorOptions{LevelNames: levelNames}.ToOptions()
	return spec
}

// TemperatureSpec builds a device spec for a temperature sensor.
func TemperatureSpec(unit int, name string) DeviceSpec {
	return specFor(unit, name, TypeNameTemperature)
}

// ContactSpec builds a device spec for a door/window contact.
func ContactSpec(unit int, name string) DeviceSpec {
	return specFor(unit, name, TypeNameContact)
}

// TextSpec builds a device spec for a text display device.
func TextSpec(unit int, name string) DeviceSpec {
	return specFor(unit, name, TypeNameText)
}

// CustomSensorSpec builds a device spec for a custom sensor with an axis unit
// label, e.g. "ppm".
func CustomSensorSpec(unit int, name, axisUnit string) DeviceSpec {
	spec := specFor(unit, name, TypeNameCustom)
	spec.Options = map[string]string{"Custom": "1;" + axisUnit}
	return spec
}

func specFor(unit int, name string, tn TypeName) DeviceSpec {
	ids := typeNameIDs[tn]
	return DeviceSpec{
		Unit:       unit,
		Name:       name,
		TypeName:   tn,
		Type:       ids.Type,
		SubType:    ids.SubType,
		SwitchType: ids.SwitchType,
	}
}
