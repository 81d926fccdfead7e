package pluginsdk

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a package-level singleton; constructing a validator per call
// is expensive.
var validate = validator.New()

// PluginConfig is the plugin's host-persisted configuration blob, stored in
// the host database. Not to be confused with Parameters: parameters come
// from the Hardware page and are read-only, configuration is structured data
// the plugin stores itself.
type PluginConfig struct {
	raw json.RawMessage
}

// NewPluginConfig wraps a raw JSON blob.
func NewPluginConfig(raw []byte) PluginConfig { return PluginConfig{raw: raw} }

// MarshalConfig builds a PluginConfig from any JSON-encodable value.
func MarshalConfig(v any) (PluginConfig, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return PluginConfig{}, fmt.Errorf("marshal config: %w", err)
	}
	return PluginConfig{raw: b}, nil
}

// Raw returns the underlying JSON.
func (c PluginConfig) Raw() []byte { return c.raw }

// IsEmpty reports whether the host returned no configuration yet.
func (c PluginConfig) IsEmpty() bool { return len(c.raw) == 0 }

// Decode unmarshals the configuration into a strongly typed struct.
func (c PluginConfig) Decode(v any) error {
	if len(c.raw) == 0 {
		return fmt.Errorf("empty config")
	}
	return json.Unmarshal(c.raw, v)
}

// DecodeValid decodes the configuration and then runs struct validation
// tags over the result.
func (c PluginConfig) DecodeValid(v any) error {
	if err := c.Decode(v); err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// GetConfigItem reads one key out of the configuration treated as an object
// map. Missing keys return def.
func GetConfigItem(c PluginConfig, key string, def json.RawMessage) json.RawMessage {
	if c.IsEmpty() {
		return def
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(c.raw, &m); err != nil {
		return def
	}
	v, ok := m[key]
	if !ok {
		return def
	}
	return v
}

// SetConfigItem sets one key in the configuration treated as an object map
// and returns the updated blob.
func SetConfigItem(c PluginConfig, key string, value any) (PluginConfig, error) {
	m := map[string]json.RawMessage{}
	if !c.IsEmpty() {
		if err := json.Unmarshal(c.raw, &m); err != nil {
			return PluginConfig{}, fmt.Errorf("config is not an object: %w", err)
		}
	}
	b, err := json.Marshal(value)
	if err != nil {
		return PluginConfig{}, fmt.Errorf("marshal config item %q: %w", key, err)
	}
	m[key] = b
	out, err := json.Marshal(m)
	if err != nil {
		return PluginConfig{}, err
	}
	return PluginConfig{raw: out}, nil
}
