package pluginsdk

// DebugLevel is a mask value from the host's debug-level enumeration.
// Levels other than ShowNone and ShowAll can be combined.
type DebugLevel int

const (
	// DebugShowNone disables all plugin and framework debugging.
	DebugShowNone DebugLevel = 0
	// DebugShowAll enables the full, very verbose framework log.
	DebugShowAll DebugLevel = 1
	// DebugFuncCalls shows messages from plugin Debug() calls only.
	DebugFuncCalls DebugLevel = 2
	// DebugHighLevelMessages shows high level framework messages about the plugin.
	DebugHighLevelMessages DebugLevel = 4
	// DebugDevices shows framework debug messages related to device objects.
	DebugDevices DebugLevel = 8
	// DebugConnections shows framework debug messages related to connection objects.
	DebugConnections DebugLevel = 16
	// DebugImages shows framework debug messages related to image objects.
	DebugImages DebugLevel = 32
	// DebugDumpData dumps contents of inbound and outbound connection data.
	DebugDumpData DebugLevel = 64
	// DebugMessageQueue shows framework debug messages related to the message queue.
	DebugMessageQueue DebugLevel = 128
)

// CombineDebugLevels folds a list of debug levels into the single mask the
// host expects. ShowNone anywhere in the list wins, then ShowAll; all other
// values are OR-ed together.
func CombineDebugLevels(levels []DebugLevel) DebugLevel {
	for _, l := range levels {
		if l == DebugShowNone {
			return DebugShowNone
		}
	}
	for _, l := range levels {
		if l == DebugShowAll {
			return DebugShowAll
		}
	}
	var mask DebugLevel
	for _, l := range levels {
		mask |= l
	}
	return mask
}

// Has reports whether the mask includes the given level.
func (d DebugLevel) Has(level DebugLevel) bool {
	if level == DebugShowNone {
		return d == DebugShowNone
	}
	return d&level != 0
}

// SwitchType is the host's numeric switch-type value for switch-like devices.
type SwitchType int

const (
	SwitchTypeOnOff            SwitchType = 0
	SwitchTypeDoorbell         SwitchType = 1
	SwitchTypeContact          SwitchType = 2
	SwitchTypeBlinds           SwitchType = 3
	SwitchTypeX10Siren         SwitchType = 4
	SwitchTypeSmokeDetector    SwitchType = 5
	SwitchTypeDimmer           SwitchType = 7
	SwitchTypeMotionSensor     SwitchType = 8
	SwitchTypePushOn           SwitchType = 9
	SwitchTypePushOff          SwitchType = 10
	SwitchTypeDoorContact      SwitchType = 11
	SwitchTypeDusk             SwitchType = 12
	SwitchTypeBlindsPercentage SwitchType = 13
	SwitchTypeMedia            SwitchType = 17
	SwitchTypeSelector         SwitchType = 18
	SwitchTypeDoorLock         SwitchType = 19
)

// LogLevel classifies SDK log lines routed to the host log.
type LogLevel string

const (
	LogNormal  LogLevel = "Normal"
	LogVerbose LogLevel = "Verbose"
	LogStatus  LogLevel = "Status"
)
