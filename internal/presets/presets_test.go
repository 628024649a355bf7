package presets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/config"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuiltin(t *testing.T) {
	list := Builtin()
	if len(list) != 8 {
		t.Fatalf("len(Builtin()) = %d, want 8", len(list))
	}
	for _, p := range list {
		if p.Source != SourceBuiltin {
			t.Errorf("%s: Source = %q", p.Name, p.Source)
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			t.Errorf("%s: pattern does not compile: %v", p.Name, err)
		}
	}

	list[0].Name = "changed"
	if Builtin()[0].Name == "changed" {
		t.Error("Builtin() exposed internal storage")
	}
}

func TestBuiltinDeleteEmptyLines(t *testing.T) {
	for _, p := range Builtin() {
		if p.Name == "Delete Empty Lines" {
			if !p.Step(true).IsDelete() {
				t.Error("Delete Empty Lines should produce a delete step")
			}
			return
		}
	}
	t.Error("Delete Empty Lines preset missing")
}

func TestPresetStep(t *testing.T) {
	p := Preset{Name: "x", Pattern: "a", Replacement: "b"}
	want := chain.Step{Pattern: "a", Replacement: "b", Global: false}
	if got := p.Step(false); got != want {
		t.Errorf("Step() = %+v, want %+v", got, want)
	}
}

func TestLoadScript(t *testing.T) {
	path := writeScript(t, `
preset("Trim Trailing", "[ \t]+$", "")
preset{ name = "Swap Words", pattern = "(\\w+) (\\w+)", replacement = "\\2 \\1" }
for i = 1, 2 do
  preset("Tag " .. i, "tag" .. i, string.upper("t" .. i))
end
`)

	list, err := LoadScript(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("len = %d, want 4: %+v", len(list), list)
	}
	if list[0].Pattern != "[ \t]+$" || list[0].Replacement != "" {
		t.Errorf("list[0] = %+v", list[0])
	}
	if list[1].Pattern != `(\w+) (\w+)` || list[1].Replacement != `\2 \1` {
		t.Errorf("list[1] = %+v", list[1])
	}
	if list[3].Name != "Tag 2" || list[3].Replacement != "T2" {
		t.Errorf("list[3] = %+v", list[3])
	}
	for _, p := range list {
		if p.Source != SourceScript {
			t.Errorf("%s: Source = %q", p.Name, p.Source)
		}
	}
}

func TestLoadScriptSandbox(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"os closed", `os.exit(1)`},
		{"io closed", `io.open("/etc/passwd")`},
		{"dofile removed", `dofile("/tmp/x.lua")`},
		{"load removed", `load("return 1")()`},
		{"missing pattern", `preset("nothing", "")`},
		{"syntax error", `preset(`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript(context.Background(), writeScript(t, tt.script))
			if !errors.Is(err, ErrScript) {
				t.Errorf("LoadScript() error = %v, want ErrScript", err)
			}
		})
	}
}

func TestLoadScriptTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := LoadScript(ctx, writeScript(t, `while true do end`))
	if !errors.Is(err, ErrScript) {
		t.Errorf("LoadScript() error = %v, want ErrScript", err)
	}
	if time.Since(start) > DefaultScriptTimeout {
		t.Error("runaway script was not interrupted by the context")
	}
}

func TestLoad(t *testing.T) {
	cfg := config.Default()
	cfg.Presets = []config.PresetEntry{{Name: "Cfg", Pattern: "c", Replacement: "C"}}
	cfg.PresetsScript = writeScript(t, `preset("Lua", "l", "L")`)

	list, err := Load(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	n := len(Builtin())
	if len(list) != n+2 {
		t.Fatalf("len = %d, want %d", len(list), n+2)
	}
	if list[n].Source != SourceConfig || list[n+1].Source != SourceScript {
		t.Errorf("order = %+v", list[n:])
	}
}

func TestLoadBrokenScriptKeepsOthers(t *testing.T) {
	cfg := config.Default()
	cfg.PresetsScript = filepath.Join(t.TempDir(), "missing.lua")

	list, err := Load(context.Background(), cfg)
	if err == nil {
		t.Error("Load() expected error for missing script")
	}
	if len(list) != len(Builtin()) {
		t.Errorf("len = %d, want built-ins kept", len(list))
	}
}
