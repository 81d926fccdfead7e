package pluginsdk

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Well-known device option keys.
const (
	OptionLevelNames     = "LevelNames"
	OptionLevelActions   = "LevelActions"
	OptionLevelOffHidden = "LevelOffHidden"
	OptionSelectorStyle  = "SelectorStyle"
	OptionCustom         = "Custom"
)

// Selector rendering styles.
const (
	SelectorStyleButtons  = "0"
	SelectorStyleDropdown = "1"
)

// SelectorOptions is the typed view of the options map a selector switch
// requires.
type SelectorOptions struct {
	LevelNames     []string
	LevelActions   []string
	LevelOffHidden bool
	SelectorStyle  string
}

// ToOptions renders the selector options into the pipe-separated string map
// the host stores.
func (s SelectorOptions) ToOptions() map[string]string {
	opts := map[string]string{
		OptionLevelNames:     strings.Join(s.LevelNames, "|"),
		OptionLevelOffHidden: strconv.FormatBool(s.LevelOffHidden),
	}
	if len(s.LevelActions) > 0 {
		opts[OptionLevelActions] = strings.Join(s.LevelActions, "|")
	} else {
		// The host expects one action slot per level, even when empty.
		opts[OptionLevelActions] = strings.Repeat("|", maxInt(len(s.LevelNames)-1, 0))
	}
	style := s.SelectorStyle
	if style == "" {
		style = SelectorStyleButtons
	}
	opts[OptionSelectorStyle] = style
	return opts
}

// ParseSelectorOptions reads selector options back out of a device options
// map.
func ParseSelectorOptions(options map[string]string) SelectorOptions {
	s := SelectorOptions{SelectorStyle: options[OptionSelectorStyle]}
	if v := options[OptionLevelNames]; v != "" {
		s.LevelNames = strings.Split(v, "|")
	}
	if v := options[OptionLevelActions]; strings.Trim(v, "|") != "" {
		s.LevelActions = strings.Split(v, "|")
	}
	s.LevelOffHidden, _ = strconv.ParseBool(options[OptionLevelOffHidden])
	return s
}

// LevelName returns the selector level name for a 0/10/20... level value.
func (s SelectorOptions) LevelName(level int) string {
	idx := level / 10
	if idx < 0 || idx >= len(s.LevelNames) {
		return ""
	}
	return s.LevelNames[idx]
}

// Color modes used in the host's color string.
const (
	ColorModeNone   = 0
	ColorModeWhite  = 1
	ColorModeTemp   = 2
	ColorModeRGB    = 3
	ColorModeCustom = 4
)

// Color is the device color value exchanged with the host as a JSON string,
// the same format command callbacks deliver.
type Color struct {
	Mode      int `json:"m"`
	Temp      int `json:"t,omitempty"`
	Red       int `json:"r,omitempty"`
	Green     int `json:"g,omitempty"`
	Blue      int `json:"b,omitempty"`
	ColdWhite int `json:"cw,omitempty"`
	WarmWhite int `json:"ww,omitempty"`
}

// RGBColor builds an RGB color value.
func RGBColor(r, g, b int) Color {
	return Color{
		Mode:  ColorModeRGB,
		Red:   clampChannel(r),
		Green: clampChannel(g),
		Blue:  clampChannel(b),
	}
}

// WhiteTempColor builds a tunable-white color value from cold/warm levels.
func WhiteTempColor(cold, warm int) Color {
	return Color{
		Mode:      ColorModeTemp,
		ColdWhite: clampChannel(cold),
		WarmWhite: clampChannel(warm),
	}
}

// String renders the color in the host's wire form.
func (c Color) String() string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(b)
}

// ParseColor parses a host color string. Empty input yields a zero Color.
func ParseColor(s string) (Color, error) {
	var c Color
	if strings.TrimSpace(s) == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return Color{}, err
	}
	return c, nil
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
