// Package config loads Sed Studio settings.
//
// Settings are layered, lowest precedence first: built-in defaults, a
// config file (TOML or YAML, chosen by extension), then SEDSTUDIO_*
// environment variables. Command-line flags are applied by the caller on
// top of the result.
//
// Example TOML:
//
//	extended = true
//	in_place = false
//	filename = "notes.txt"
//	presets_script = "presets.lua"
//
//	[history]
//	max_entries = 200
//
//	[theme]
//	accent = "#3498db"
//
//	[[presets]]
//	name = "Trim Trailing"
//	pattern = "[ \\t]+$"
//	replacement = ""
package config

import (
	"fmt"
	"strings"
)

// Modes for rendering commands.
const (
	ModeChain  = "chain"
	ModeSingle = "single"
)

// DefaultSampleText is the preview input when none is configured.
const DefaultSampleText = "Email: test@example.com\nDate: 2023-10-15\nEmpty Line Below:\n\nValue: 12345"

// Config holds all settings.
type Config struct {
	InPlace          bool   `toml:"in_place" yaml:"in_place"`
	Extended         bool   `toml:"extended" yaml:"extended"`
	Global           bool   `toml:"global" yaml:"global"`
	EscapeDelimiters bool   `toml:"escape_delimiters" yaml:"escape_delimiters"`
	Filename         string `toml:"filename" yaml:"filename"`
	Mode             string `toml:"mode" yaml:"mode"`

	SampleText string `toml:"sample_text" yaml:"sample_text"`
	SampleFile string `toml:"sample_file" yaml:"sample_file"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`

	PresetsScript string        `toml:"presets_script" yaml:"presets_script"`
	Presets       []PresetEntry `toml:"presets" yaml:"presets"`

	History HistoryConfig `toml:"history" yaml:"history"`
	Theme   Theme         `toml:"theme" yaml:"theme"`

	// Path is the file the config was loaded from, if any.
	Path string `toml:"-" yaml:"-"`
}

// HistoryConfig configures the command history.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// PresetEntry is a user-defined preset.
type PresetEntry struct {
	Name        string `toml:"name" yaml:"name"`
	Pattern     string `toml:"pattern" yaml:"pattern"`
	Replacement string `toml:"replacement" yaml:"replacement"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Extended:   true,
		Global:     true,
		Mode:       ModeChain,
		SampleText: DefaultSampleText,
		LogLevel:   "info",
		History: HistoryConfig{
			MaxEntries: 500,
		},
		Theme: DefaultTheme(),
	}
}

// Validate checks settings that cannot be corrected silently.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeChain, ModeSingle:
	default:
		return fmt.Errorf("%w: mode %q (must be %s or %s)", ErrInvalidValue, c.Mode, ModeChain, ModeSingle)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("%w: history.max_entries %d", ErrInvalidValue, c.History.MaxEntries)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, c.LogLevel)
	}
	for i, p := range c.Presets {
		if p.Name == "" || p.Pattern == "" {
			return fmt.Errorf("%w: presets[%d] needs a name and a pattern", ErrInvalidValue, i)
		}
	}
	return c.Theme.Validate()
}
