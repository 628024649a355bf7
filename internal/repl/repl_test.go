package repl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/presets"
	"github.com/dshills/sedstudio/internal/session"
)

func newTestREPL(sample string) *REPL {
	sess := session.New(session.Options{
		Flags:      chain.Flags{Extended: true},
		SampleText: sample,
		Global:     true,
	})
	return New(sess, Options{Presets: presets.Builtin()})
}

func mustExec(t *testing.T, r *REPL, line string) string {
	t.Helper()
	out, err := r.Execute(line)
	if err != nil {
		t.Fatalf("Execute(%q) error = %v", line, err)
	}
	return out
}

func TestBuildChain(t *testing.T) {
	r := newTestREPL("Value: 12345")

	mustExec(t, r, `pattern \d+`)
	mustExec(t, r, "replace ")
	out := mustExec(t, r, "add")
	if !strings.Contains(out, "step 1 added") {
		t.Errorf("add output = %q", out)
	}

	out = mustExec(t, r, "show")
	want := "sed -E -e 's|\\d+||g' target_file.txt\nValue: "
	if out != want {
		t.Errorf("show = %q, want %q", out, want)
	}

	if d := r.sess.Draft(); d.Pattern != "" || !d.Global {
		t.Errorf("draft after add = %+v", d)
	}
}

func TestReplacementKeepsSpaces(t *testing.T) {
	r := newTestREPL("")
	mustExec(t, r, "replace  a b ")
	if got := r.sess.Draft().Replacement; got != " a b " {
		t.Errorf("Replacement = %q, want %q", got, " a b ")
	}
}

func TestToggles(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"extended off", "sed -e 's|a||g' target_file.txt"},
		{"inplace on", "sed -i -E -e 's|a||g' target_file.txt"},
		{"extended", "sed -e 's|a||g' target_file.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r := newTestREPL("")
			mustExec(t, r, "pattern a")
			mustExec(t, r, "add")
			if got := mustExec(t, r, tt.line); got != tt.want {
				t.Errorf("Execute(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestGlobalAndRangeInSingleMode(t *testing.T) {
	r := newTestREPL("x\nx\nx")
	mustExec(t, r, "mode single")
	mustExec(t, r, "pattern x")
	mustExec(t, r, "replace y")
	mustExec(t, r, "global off")
	got := mustExec(t, r, "range 2,$")

	if want := "sed -E '2,$s|x|y|' file.txt"; got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
	if out := mustExec(t, r, "render"); !strings.HasSuffix(out, "x\ny\ny") {
		t.Errorf("render = %q", out)
	}
	if r.sess.History().Len() != 1 {
		t.Errorf("History().Len() = %d, want 1", r.sess.History().Len())
	}
}

func TestInvalidInput(t *testing.T) {
	r := newTestREPL("")
	tests := []string{
		"frobnicate",
		"range x",
		"global maybe",
		"mode sideways",
		"add",
		"undo",
		"preset 99",
		"preset Nope",
		"export",
		"import script x",
	}
	for _, line := range tests {
		if _, err := r.Execute(line); err == nil {
			t.Errorf("Execute(%q) error = nil, want error", line)
		}
	}
	if _, err := r.Execute("frobnicate"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command error = %v", err)
	}
}

func TestQuit(t *testing.T) {
	r := newTestREPL("")
	for _, line := range []string{"quit", "exit", "q"} {
		if _, err := r.Execute(line); !errors.Is(err, ErrQuit) {
			t.Errorf("Execute(%q) error = %v, want ErrQuit", line, err)
		}
	}
}

func TestPresets(t *testing.T) {
	r := newTestREPL("a\n\nb")
	if out := mustExec(t, r, "presets"); !strings.Contains(out, "Delete Empty Lines") {
		t.Errorf("presets = %q", out)
	}

	mustExec(t, r, "preset delete empty lines")
	mustExec(t, r, "add")
	if out := mustExec(t, r, "show"); !strings.HasSuffix(out, "\na\nb") {
		t.Errorf("show = %q", out)
	}

	mustExec(t, r, "preset 1")
	if d := r.sess.Draft(); d.Pattern != `\d+` {
		t.Errorf("draft = %+v", d)
	}
}

func TestStepsListing(t *testing.T) {
	r := newTestREPL("")
	if out := mustExec(t, r, "steps"); out != "(no steps)" {
		t.Errorf("steps = %q", out)
	}
	mustExec(t, r, "pattern a")
	mustExec(t, r, "replace b")
	mustExec(t, r, "add")
	mustExec(t, r, "pattern ^$")
	mustExec(t, r, "delete")
	mustExec(t, r, "range 1,3")
	mustExec(t, r, "add")

	want := "1. substitute \"a\" -> \"b\" g\n2. delete \"^$\" [1,3]"
	if out := mustExec(t, r, "steps"); out != want {
		t.Errorf("steps = %q, want %q", out, want)
	}

	mustExec(t, r, "undo")
	mustExec(t, r, "clear")
	if len(r.sess.Steps()) != 0 {
		t.Error("clear left steps")
	}
}

func TestSampleAndPreviewError(t *testing.T) {
	r := newTestREPL("")
	if out := mustExec(t, r, `sample one\ntwo`); out != "one\ntwo" {
		t.Errorf("sample = %q", out)
	}
	mustExec(t, r, "pattern ([")
	mustExec(t, r, "add")
	if out := mustExec(t, r, "show"); !strings.Contains(out, "Regex Error") {
		t.Errorf("show = %q", out)
	}
}

func TestExportAndHistory(t *testing.T) {
	r := newTestREPL("")
	dir := t.TempDir()

	if _, err := r.Execute("export script " + filepath.Join(dir, "x.sh")); !session.IsWarning(err) {
		t.Errorf("empty chain export error = %v", err)
	}
	if _, err := r.Execute("history"); !errors.Is(err, session.ErrEmptyHistory) {
		t.Errorf("empty history error = %v", err)
	}

	mustExec(t, r, "pattern a")
	mustExec(t, r, "add")
	mustExec(t, r, "copy")
	mustExec(t, r, "export script "+filepath.Join(dir, "x.sh"))
	if _, err := os.Stat(filepath.Join(dir, "x.sh")); err != nil {
		t.Errorf("script not written: %v", err)
	}

	out := mustExec(t, r, "history")
	if !strings.Contains(out, "sed -E -e 's|a||g' target_file.txt") {
		t.Errorf("history = %q", out)
	}

	hist := filepath.Join(dir, "h.json")
	mustExec(t, r, "export history "+hist)

	other := newTestREPL("")
	if out := mustExec(t, other, "import history "+hist); out != "1 entries imported" {
		t.Errorf("import = %q", out)
	}
}

func TestRunScript(t *testing.T) {
	r := newTestREPL("Date: 2023-10-15")
	in := strings.NewReader(`# comment
pattern \d{4}-\d{2}-\d{2}
replace DATE
add
bogus
show
quit
show
`)
	var stdout, stderr bytes.Buffer
	failed, err := r.RunScript(in, &stdout, &stderr)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if strings.Count(stdout.String(), "Date: DATE") != 1 {
		t.Errorf("stdout = %q, want one preview before quit", stdout.String())
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunScriptWarnings(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name       string
		script     string
		wantFailed int
		wantStderr string
	}{
		{"empty chain export", "export script " + filepath.Join(dir, "x.sh") + "\n", 0, "warning: "},
		{"empty history", "history\n", 0, "warning: "},
		{"warning then error", "history\nbogus\n", 1, "error: unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestREPL("")
			var stdout, stderr bytes.Buffer
			failed, err := r.RunScript(strings.NewReader(tt.script), &stdout, &stderr)
			if err != nil {
				t.Fatalf("RunScript() error = %v", err)
			}
			if failed != tt.wantFailed {
				t.Errorf("RunScript() failed = %d, want %d", failed, tt.wantFailed)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
			if !strings.Contains(stderr.String(), "warning: ") {
				t.Errorf("stderr = %q, want a warning", stderr.String())
			}
		})
	}
}

func TestHistoryClear(t *testing.T) {
	r := newTestREPL("")
	mustExec(t, r, "pattern a")
	mustExec(t, r, "copy")

	if out := mustExec(t, r, "history clear"); out != "history cleared" {
		t.Errorf("Execute(%q) = %q, want %q", "history clear", out, "history cleared")
	}
	if _, err := r.Execute("history"); !errors.Is(err, session.ErrEmptyHistory) {
		t.Errorf("Execute(%q) error = %v, want ErrEmptyHistory", "history", err)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		arg     string
		current bool
		want    bool
	}{
		{"", true, false},
		{"", false, true},
		{"on", false, true},
		{"off", true, false},
		{"true", false, true},
		{"0", true, false},
	}
	for _, tt := range tests {
		if got := resolve(tt.arg, tt.current); got != tt.want {
			t.Errorf("resolve(%q, %v) = %v, want %v", tt.arg, tt.current, got, tt.want)
		}
	}
}
