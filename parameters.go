package pluginsdk

import (
	"strconv"
	"strings"
)

// Parameter is a key of the host's plugin parameter dictionary. Parameters
// are set on the host's Hardware page and are read-only to the plugin.
type Parameter string

const (
	// ParamKey is the unique short name for the plugin.
	ParamKey Parameter = "Key"
	// ParamName is the hardware name given to this plugin instance.
	ParamName Parameter = "Name"
	// ParamHomeFolder is the folder the plugin was run from.
	ParamHomeFolder Parameter = "HomeFolder"
	// ParamStartupFolder is the host process startup folder.
	ParamStartupFolder Parameter = "StartupFolder"
	// ParamUserDataFolder is the host user data folder.
	ParamUserDataFolder Parameter = "UserDataFolder"
	// ParamDatabase is the location of the host database.
	ParamDatabase Parameter = "Database"
	// ParamLanguage is the host UI language.
	ParamLanguage Parameter = "Language"
	// ParamVersion is the plugin version.
	ParamVersion Parameter = "Version"
	// ParamAuthor is the plugin author.
	ParamAuthor Parameter = "Author"
	// ParamAddress is the IP address used during connection.
	ParamAddress Parameter = "Address"
	// ParamPort is the IP port used during connection.
	ParamPort Parameter = "Port"
	// ParamUsername and ParamPassword are the hardware credentials.
	ParamUsername Parameter = "Username"
	ParamPassword Parameter = "Password"
	// ParamMode1..ParamMode6 are the six general-purpose parameters.
	ParamMode1 Parameter = "Mode1"
	ParamMode2 Parameter = "Mode2"
	ParamMode3 Parameter = "Mode3"
	ParamMode4 Parameter = "Mode4"
	ParamMode5 Parameter = "Mode5"
	ParamMode6 Parameter = "Mode6"
	// ParamSerialPort is used when connecting to serial ports.
	ParamSerialPort Parameter = "SerialPort"
	// ParamHostVersion, ParamHostHash and ParamHostBuildTime describe the
	// running host build.
	ParamHostVersion   Parameter = "DomoticzVersion"
	ParamHostHash      Parameter = "DomoticzHash"
	ParamHostBuildTime Parameter = "DomoticzBuildTime"
)

// Parameters is a typed snapshot of the host parameter dictionary. It is
// populated once at plugin start and remains static for the plugin lifetime.
type Parameters struct {
	Key            string
	Name           string
	HomeFolder     string
	StartupFolder  string
	UserDataFolder string
	Database       string
	Language       string
	Version        string
	Author         string
	Address        string
	Port           string
	Username       string
	Password       string
	Mode1          string
	Mode2          string
	Mode3          string
	Mode4          string
	Mode5          string
	Mode6          string
	SerialPort     string
	HostVersion    string
	HostHash       string
	HostBuildTime  string

	raw map[string]string
}

// ParametersFromMap materializes a typed Parameters snapshot from the raw
// dictionary the host hands over.
func ParametersFromMap(raw map[string]string) Parameters {
	p := Parameters{raw: raw}
	p.Key = raw[string(ParamKey)]
	p.Name = raw[string(ParamName)]
	p.HomeFolder = raw[string(ParamHomeFolder)]
	p.StartupFolder = raw[string(ParamStartupFolder)]
	p.UserDataFolder = raw[string(ParamUserDataFolder)]
	p.Database = raw[string(ParamDatabase)]
	p.Language = raw[string(ParamLanguage)]
	p.Version = raw[string(ParamVersion)]
	p.Author = raw[string(ParamAuthor)]
	p.Address = raw[string(ParamAddress)]
	p.Port = raw[string(ParamPort)]
	p.Username = raw[string(ParamUsername)]
	p.Password = raw[string(ParamPassword)]
	p.Mode1 = raw[string(ParamMode1)]
	p.Mode2 = raw[string(ParamMode2)]
	p.Mode3 = raw[string(ParamMode3)]
	p.Mode4 = raw[string(ParamMode4)]
	p.Mode5 = raw[string(ParamMode5)]
	p.Mode6 = raw[string(ParamMode6)]
	p.SerialPort = raw[string(ParamSerialPort)]
	p.HostVersion = raw[string(ParamHostVersion)]
	p.HostHash = raw[string(ParamHostHash)]
	p.HostBuildTime = raw[string(ParamHostBuildTime)]
	return p
}

// Get returns the raw value for a parameter key, including keys the typed
// fields do not cover.
func (p Parameters) Get(key Parameter) string {
	if p.raw == nil {
		return ""
	}
	return p.raw[string(key)]
}

// Mode returns general parameter n (1-6). Out-of-range values return "".
func (p Parameters) Mode(n int) string {
	switch n {
	case 1:
		return p.Mode1
	case 2:
		return p.Mode2
	case 3:
		return p.Mode3
	case 4:
		return p.Mode4
	case 5:
		return p.Mode5
	case 6:
		return p.Mode6
	default:
		return ""
	}
}

// Raw returns the underlying parameter dictionary.
func (p Parameters) Raw() map[string]string { return p.raw }

// IntParam coerces a parameter value to an integer. Invalid values fall back
// to the default and are reported through the logger.
func IntParam(logger Logger, name string, value string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		if logger != nil {
			logger.Error("parameter has an invalid value, default used instead", "name", name, "value", value, "default", def)
		}
		return def
	}
	return v
}

// ParseCSV parses a comma-separated list of integers, skipping fields that
// do not parse.
func ParseCSV(s string) []int {
	var values []int
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}
