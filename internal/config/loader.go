package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SEDSTUDIO_"

// DefaultPath returns the per-user config file location. It returns an
// empty string if the user config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sedstudio", "config.toml")
}

// Load builds a Config from defaults, the file at path (if path is not
// empty) and the process environment. A missing file is an error wrapping
// os.ErrNotExist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the file over the current values. Keys absent from the
// file keep their current value.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			pe := &ParseError{Path: path, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				pe.Line, _ = derr.Position()
			}
			return pe
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	c.Path = path
	base := filepath.Dir(path)
	c.PresetsScript = resolve(base, c.PresetsScript)
	c.SampleFile = resolve(base, c.SampleFile)
	c.LogFile = resolve(base, c.LogFile)
	return nil
}

// resolve makes p relative to base unless it is empty or absolute.
func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// applyEnv overrides settings from SEDSTUDIO_* variables.
func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	bools := map[string]*bool{
		"IN_PLACE":          &c.InPlace,
		"EXTENDED":          &c.Extended,
		"GLOBAL":            &c.Global,
		"ESCAPE_DELIMITERS": &c.EscapeDelimiters,
	}
	for name, dst := range bools {
		val, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, name, val)
		}
		*dst = b
	}

	strs := map[string]*string{
		"FILENAME":       &c.Filename,
		"MODE":           &c.Mode,
		"LOG_LEVEL":      &c.LogLevel,
		"LOG_FILE":       &c.LogFile,
		"PRESETS_SCRIPT": &c.PresetsScript,
		"SAMPLE_FILE":    &c.SampleFile,
	}
	for name, dst := range strs {
		if val, ok := lookup(EnvPrefix + name); ok {
			*dst = val
		}
	}

	if val, ok := lookup(EnvPrefix + "HISTORY_MAX"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: %sHISTORY_MAX=%q", ErrInvalidValue, EnvPrefix, val)
		}
		c.History.MaxEntries = n
	}
	return nil
}
