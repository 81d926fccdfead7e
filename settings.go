package pluginsdk

import (
	"strconv"
	"strings"
)

// Settings is the host preferences table as exposed to plugins. Always
// available, updated live by the host when the user changes settings; the
// plugin is not restarted. Read-only from the plugin side.
type Settings map[string]string

// Get returns the setting value, "" when absent.
func (s Settings) Get(key string) string { return s[key] }

// GetBool interprets common host boolean spellings ("1", "true", "on").
func (s Settings) GetBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(s[key])) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// GetInt returns the setting as an integer, def when absent or malformed.
func (s Settings) GetInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s[key]))
	if err != nil {
		return def
	}
	return v
}
