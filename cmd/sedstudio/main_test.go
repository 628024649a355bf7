package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/sedstudio/internal/logging"
	"github.com/dshills/sedstudio/internal/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := writeConfig(t, "in_place = true\nfilename = \"notes.txt\"\nmode = \"single\"\n")

	tests := []struct {
		name  string
		opts  options
		check func(t *testing.T, inPlace bool, filename, mode string)
	}{
		{
			name: "file values without flags",
			opts: options{configPath: path, set: map[string]bool{}},
			check: func(t *testing.T, inPlace bool, filename, mode string) {
				if !inPlace || filename != "notes.txt" || mode != "single" {
					t.Errorf("got in_place=%v filename=%q mode=%q", inPlace, filename, mode)
				}
			},
		},
		{
			name: "explicit flags win",
			opts: options{
				configPath: path,
				inPlace:    false,
				filename:   "other.txt",
				mode:       "chain",
				set:        map[string]bool{"i": true, "f": true, "mode": true},
			},
			check: func(t *testing.T, inPlace bool, filename, mode string) {
				if inPlace || filename != "other.txt" || mode != "chain" {
					t.Errorf("got in_place=%v filename=%q mode=%q", inPlace, filename, mode)
				}
			},
		},
		{
			name: "unset flags keep file values",
			opts: options{configPath: path, inPlace: false, set: map[string]bool{"f": true}},
			check: func(t *testing.T, inPlace bool, filename, mode string) {
				if !inPlace || filename != "" {
					t.Errorf("got in_place=%v filename=%q", inPlace, filename)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.opts)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			tt.check(t, cfg.InPlace, cfg.Filename, cfg.Mode)
		})
	}
}

func TestLoadConfigInvalidMode(t *testing.T) {
	path := writeConfig(t, "")
	_, err := loadConfig(options{configPath: path, mode: "bogus", set: map[string]bool{"mode": true}})
	if err == nil {
		t.Error("loadConfig() error = nil, want invalid mode")
	}
}

func TestNewSession(t *testing.T) {
	sample := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(sample, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, "mode = \"single\"\n")

	cfg, err := loadConfig(options{configPath: path, inputPath: sample, set: map[string]bool{"input": true}})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	sess, err := newSession(cfg, options{historyPath: filepath.Join(t.TempDir(), "none.json")}, logging.Discard())
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	if sess.Mode() != session.ModeSingle {
		t.Errorf("Mode() = %v, want single", sess.Mode())
	}
	if sess.Sample() != "from file" {
		t.Errorf("Sample() = %q", sess.Sample())
	}
	if !sess.Flags().Extended {
		t.Error("Extended should default to true")
	}
}
