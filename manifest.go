package pluginsdk

// ManifestFileName is the standard filename of the declaration shipped in a
// plugin package. The host renders it on the Hardware page.
const ManifestFileName = "plugin.json"

// Parameter field widths the host UI understands.
const (
	ParamWidthSmall  = "50px"
	ParamWidthMedium = "150px"
	ParamWidthLarge  = "300px"
)

// PluginManifest declares a plugin to the host.
//
// This file is intended for humans + host tooling. Keep it
// forward-compatible:
// - Prefer adding fields over changing existing meanings.
// - Use SchemaVersion for evolution.
type PluginManifest struct {
	SchemaVersion int `json:"schema_version"`

	// Key is the unique short name; it must match the plugin package key.
	Key     string `json:"key"`
	Name    string `json:"name"`
	Author  string `json:"author,omitempty"`
	Version string `json:"version,omitempty"`

	// WikiLink and ExternalLink show up as help links in the host UI.
	WikiLink     string `json:"wikilink,omitempty"`
	ExternalLink string `json:"externallink,omitempty"`

	// Params declares which parameter fields the Hardware page offers.
	Params []ManifestParam `json:"params,omitempty"`

	// Free-form extension point.
	Meta map[string]any `json:"meta,omitempty"`
}

// ManifestParam declares one Hardware-page field.
type ManifestParam struct {
	// Field names the Parameter the value lands in (Address, Mode1, ...).
	Field    Parameter `json:"field"`
	Label    string    `json:"label"`
	Width    string    `json:"width,omitempty"`
	Required bool      `json:"required,omitempty"`
	Default  string    `json:"default,omitempty"`
	Password bool      `json:"password,omitempty"`
	// Options turns the field into a dropdown.
	Options []ManifestParamOption `json:"options,omitempty"`
}

// ManifestParamOption is one dropdown entry of a parameter field.
type ManifestParamOption struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Default bool   `json:"default,omitempty"`
}
