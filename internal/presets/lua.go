package presets

import (
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultScriptTimeout bounds how long a preset script may run.
const DefaultScriptTimeout = 2 * time.Second

// ErrScript wraps every failure of a preset script.
var ErrScript = errors.New("preset script")

// LoadScript runs the Lua file at path in a sandbox and collects the
// presets it registers:
//
//	preset("Trim Trailing", "[ \t]+$", "")
//	preset{ name = "Swap Words", pattern = "(\\w+) (\\w+)", replacement = "\\2 \\1" }
//
// Only the base, table, string and math libraries are available.
func LoadScript(ctx context.Context, path string) ([]Preset, error) {
	L := newSandbox()
	defer L.Close()

	ctx, cancel := context.WithTimeout(ctx, DefaultScriptTimeout)
	defer cancel()
	L.SetContext(ctx)

	var out []Preset
	L.SetGlobal("preset", L.NewFunction(func(L *lua.LState) int {
		p, err := presetArgs(L)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		p.Source = SourceScript
		out = append(out, p)
		return 0
	}))

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrScript, path, err)
	}
	return out, nil
}

// newSandbox creates a Lua state with only safe libraries opened.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed; these base functions would
	// reopen the filesystem.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// presetArgs accepts either (name, pattern, replacement) or a table with
// those fields.
func presetArgs(L *lua.LState) (Preset, error) {
	if tbl, ok := L.Get(1).(*lua.LTable); ok {
		p := Preset{
			Name:        lua.LVAsString(tbl.RawGetString("name")),
			Pattern:     lua.LVAsString(tbl.RawGetString("pattern")),
			Replacement: lua.LVAsString(tbl.RawGetString("replacement")),
		}
		return p, checkPreset(p)
	}

	p := Preset{
		Name:        L.CheckString(1),
		Pattern:     L.CheckString(2),
		Replacement: L.OptString(3, ""),
	}
	return p, checkPreset(p)
}

func checkPreset(p Preset) error {
	if p.Name == "" {
		return errors.New("preset needs a name")
	}
	if p.Pattern == "" {
		return fmt.Errorf("preset %q needs a pattern", p.Name)
	}
	return nil
}
