package pluginsdk

import "encoding/json"

// Payload types for the host callback events.

// CommandEvent is the payload of a "command" event: the user (or a scene)
// operated one of the plugin's devices.
type CommandEvent struct {
	Unit    int     `json:"unit"`
	Command string  `json:"command"`
	Level   float64 `json:"level,omitempty"`
	Color   string  `json:"color,omitempty"`
}

// IsOn reports whether the command switches the device on.
func (c CommandEvent) IsOn() bool {
	switch c.Command {
	case "On", "Set Level", "Open":
		return true
	default:
		return false
	}
}

// ParsedColor decodes the command's color string, if any.
func (c CommandEvent) ParsedColor() (Color, error) {
	return ParseColor(c.Color)
}

// ConnectionEvent is the payload of "connect" and "disconnect" events.
// Status 0 means success; otherwise Description carries the failure text.
type ConnectionEvent struct {
	Connection  string `json:"connection"`
	Status      int    `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}

// OK reports whether the connection operation succeeded.
func (c ConnectionEvent) OK() bool { return c.Status == 0 }

// MessageEvent is the payload of a "message" event: one protocol-framed
// message received on a host connection.
type MessageEvent struct {
	Connection string          `json:"connection"`
	Data       json.RawMessage `json:"data"`
}

// NotificationEvent is the payload of a "notification" event, delivered to
// plugins registered as a notifier.
type NotificationEvent struct {
	Name      string `json:"name"`
	Subject   string `json:"subject,omitempty"`
	Text      string `json:"text,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  int    `json:"priority,omitempty"`
	Sound     string `json:"sound,omitempty"`
	ImageFile string `json:"image_file,omitempty"`
}

// SecurityEvent is the payload of a "security" event from the host panel.
type SecurityEvent struct {
	Unit        int    `json:"unit"`
	Level       int    `json:"level"`
	Description string `json:"description,omitempty"`
}

// DeviceRemovedEvent is the payload of a "device_removed" event.
type DeviceRemovedEvent struct {
	Unit int `json:"unit"`
}

// ParsePayload parses an event payload into a typed struct.
func ParsePayload[T any](payload json.RawMessage) (*T, error) {
	var data T
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
