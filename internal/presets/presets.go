// Package presets provides the regex cheat sheet: named pattern and
// replacement pairs that fill in the current step.
//
// Presets come from three places, in display order: the built-in list, the
// [[presets]] entries of the config file, and a user Lua script that calls
// preset(name, pattern, replacement) once per entry.
package presets

import (
	"context"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/config"
)

// Sources of presets.
const (
	SourceBuiltin = "builtin"
	SourceConfig  = "config"
	SourceScript  = "script"
)

// Preset is a named pattern and replacement.
type Preset struct {
	Name        string
	Pattern     string
	Replacement string
	Source      string
}

// Step returns the preset as an edit step.
func (p Preset) Step(global bool) chain.Step {
	return chain.Step{
		Pattern:     p.Pattern,
		Replacement: p.Replacement,
		Global:      global,
	}
}

var builtin = []Preset{
	{Name: "Remove Numbers", Pattern: `\d+`, Replacement: ""},
	{Name: "Remove Whitespace", Pattern: `\s+`, Replacement: ""},
	{Name: "Find IP Addresses", Pattern: `([0-9]{1,3}\.){3}[0-9]{1,3}`, Replacement: "[IP]"},
	{Name: "Delete Empty Lines", Pattern: `^$`, Replacement: chain.DeleteSentinel},
	{Name: "Comment Out Line", Pattern: `^(.*)$`, Replacement: `# \1`},
	{Name: "Extract Emails", Pattern: `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, Replacement: "[EMAIL]"},
	{Name: "Strip HTML Tags", Pattern: `<[^>]*>`, Replacement: ""},
	{Name: "Match Dates (YYYY-MM-DD)", Pattern: `\d{4}-\d{2}-\d{2}`, Replacement: "DATE"},
}

// Builtin returns the built-in presets.
func Builtin() []Preset {
	out := make([]Preset, len(builtin))
	for i, p := range builtin {
		p.Source = SourceBuiltin
		out[i] = p
	}
	return out
}

// FromConfig converts config entries to presets.
func FromConfig(entries []config.PresetEntry) []Preset {
	out := make([]Preset, 0, len(entries))
	for _, e := range entries {
		out = append(out, Preset{
			Name:        e.Name,
			Pattern:     e.Pattern,
			Replacement: e.Replacement,
			Source:      SourceConfig,
		})
	}
	return out
}

// Load returns built-in, config and script presets. A failing script does
// not discard the others: they are returned together with the error.
func Load(ctx context.Context, cfg *config.Config) ([]Preset, error) {
	out := Builtin()
	out = append(out, FromConfig(cfg.Presets)...)
	if cfg.PresetsScript == "" {
		return out, nil
	}

	scripted, err := LoadScript(ctx, cfg.PresetsScript)
	if err != nil {
		return out, err
	}
	return append(out, scripted...), nil
}
