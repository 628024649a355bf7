package config

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme holds interface colors as hex strings.
type Theme struct {
	Accent  string `toml:"accent" yaml:"accent"`
	Command string `toml:"command" yaml:"command"`
	Preview string `toml:"preview" yaml:"preview"`
	Error   string `toml:"error" yaml:"error"`
	Copied  string `toml:"copied" yaml:"copied"`
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Accent:  "#3498db",
		Command: "#e67e22",
		Preview: "#2ecc71",
		Error:   "#e74c3c",
		Copied:  "#2ecc71",
	}
}

// Validate reports the first color that does not parse.
func (t Theme) Validate() error {
	for name, hex := range map[string]string{
		"accent":  t.Accent,
		"command": t.Command,
		"preview": t.Preview,
		"error":   t.Error,
		"copied":  t.Copied,
	} {
		if hex == "" {
			continue
		}
		if _, _, _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("%w: theme.%s: %v", ErrInvalidValue, name, err)
		}
	}
	return nil
}

// ParseColor parses "#rrggbb" into 8-bit components.
func ParseColor(hex string) (r, g, b uint8, err error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}
