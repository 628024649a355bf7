// Package repl is a line-oriented front end of Sed Studio for terminals
// where the full-screen interface is unavailable, and for scripted use.
//
// Each input line is one command:
//
//	pattern \d+
//	replace N
//	add
//	show
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/logging"
	"github.com/dshills/sedstudio/internal/presets"
	"github.com/dshills/sedstudio/internal/session"
)

// Prompt is the interactive prompt.
const Prompt = "sed> "

// ErrQuit is returned by Execute for quit and exit.
var ErrQuit = errors.New("quit")

// ErrUnknownCommand is returned for unrecognized input.
var ErrUnknownCommand = errors.New("unknown command")

// Options configures a REPL.
type Options struct {
	Presets []presets.Preset
	Logger  *logging.Logger

	// HistoryFile persists typed lines between interactive runs.
	HistoryFile string
}

// REPL executes commands against a session.
type REPL struct {
	sess    *session.Session
	presets []presets.Preset
	logger  *logging.Logger
	histf   string
}

// New creates a REPL.
func New(sess *session.Session, opts Options) *REPL {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &REPL{
		sess:    sess,
		presets: opts.Presets,
		logger:  logger.WithComponent("repl"),
		histf:   opts.HistoryFile,
	}
}

// Run reads commands interactively until EOF, interrupt, quit or ctx is
// canceled.
func (r *REPL) Run(ctx context.Context, stdin io.ReadCloser, stdout, stderr io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryFile:     r.histf,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           stdin,
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
	defer stop()

	fmt.Fprintln(stdout, "Sed Studio. Type help for commands.")
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			return ctx.Err()
		}
		if r.exec(line, stdout, stderr) {
			return nil
		}
	}
}

// RunScript executes commands read from in, one per line, without line
// editing. Blank lines and lines starting with # are skipped. It stops at
// the first quit; command errors are reported and do not stop the run.
// Returns the number of failed commands. Warnings are reported but not
// counted.
func (r *REPL) RunScript(in io.Reader, stdout, stderr io.Writer) (int, error) {
	failed := 0
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		out, err := r.Execute(line)
		if errors.Is(err, ErrQuit) {
			break
		}
		if out != "" {
			fmt.Fprintln(stdout, out)
		}
		switch {
		case err == nil:
		case session.IsWarning(err):
			fmt.Fprintf(stderr, "warning: %v\n", err)
		default:
			failed++
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
	}
	return failed, sc.Err()
}

// exec runs one interactive line. Returns true on quit.
func (r *REPL) exec(line string, stdout, stderr io.Writer) bool {
	out, err := r.Execute(line)
	if errors.Is(err, ErrQuit) {
		return true
	}
	if out != "" {
		fmt.Fprintln(stdout, out)
	}
	if err != nil {
		if session.IsWarning(err) {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
	}
	return false
}

// Execute runs one command line and returns its output.
func (r *REPL) Execute(line string) (string, error) {
	line = strings.TrimLeft(line, " \t")
	if line == "" {
		return "", nil
	}
	name, arg, _ := strings.Cut(line, " ")
	trimmed := strings.TrimSpace(arg)
	r.logger.Debug("command", "name", name)

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return "", ErrQuit
	case "help", "?":
		return helpText, nil

	case "pattern", "p":
		r.editStep(func(s *chain.Step) { s.Pattern = arg })
		return r.sess.Command(), nil
	case "replace", "r":
		r.editStep(func(s *chain.Step) { s.Replacement = arg })
		return r.sess.Command(), nil
	case "delete":
		r.editStep(func(s *chain.Step) { s.Replacement = chain.DeleteSentinel })
		return r.sess.Command(), nil
	case "range":
		if trimmed != "" {
			if _, _, err := chain.ParseRange(trimmed); err != nil {
				return "", err
			}
		}
		r.editStep(func(s *chain.Step) { s.Range = trimmed })
		return r.sess.Command(), nil
	case "global", "g":
		if err := validSwitch(trimmed); err != nil {
			return "", err
		}
		r.editStep(func(s *chain.Step) { s.Global = resolve(trimmed, s.Global) })
		return r.sess.Command(), nil
	case "extended", "e":
		return r.toggleFlag(trimmed, func(f *chain.Flags) *bool { return &f.Extended })
	case "inplace", "i":
		return r.toggleFlag(trimmed, func(f *chain.Flags) *bool { return &f.InPlace })
	case "escape":
		return r.toggleFlag(trimmed, func(f *chain.Flags) *bool { return &f.EscapeDelimiters })
	case "mode":
		return r.setMode(trimmed)
	case "file":
		r.sess.SetFilename(trimmed)
		return r.sess.Command(), nil

	case "add", "a":
		if !r.sess.AppendStep() {
			return "", errors.New("pattern is empty")
		}
		r.sess.SetStep(chain.Step{Global: r.sess.Draft().Global})
		return fmt.Sprintf("step %d added\n%s", len(r.sess.Steps()), r.sess.Command()), nil
	case "undo", "u":
		if !r.sess.RemoveLastStep() {
			return "", errors.New("chain is empty")
		}
		return r.sess.Command(), nil
	case "clear":
		r.sess.ClearChain()
		return r.sess.Command(), nil
	case "steps", "list":
		return r.listSteps(), nil

	case "presets":
		return r.listPresets(), nil
	case "preset":
		return r.applyPreset(trimmed)

	case "sample":
		r.sess.SetSample(strings.ReplaceAll(arg, `\n`, "\n"))
		return r.preview(), nil
	case "load":
		if err := r.sess.LoadSample(trimmed); err != nil {
			return "", err
		}
		return r.preview(), nil

	case "show", "s":
		return r.sess.Command() + "\n" + r.preview(), nil
	case "render":
		res := r.sess.Render()
		return res.Command + "\n" + res.PreviewText(), nil
	case "copy":
		return r.sess.CopyCommand()
	case "history", "h":
		if strings.EqualFold(trimmed, "clear") {
			r.sess.History().Clear()
			return "history cleared", nil
		}
		return r.listHistory()

	case "export":
		return r.export(trimmed)
	case "import":
		kind, path, _ := strings.Cut(trimmed, " ")
		if kind != "history" {
			return "", fmt.Errorf("usage: import history PATH")
		}
		n, err := r.sess.ImportHistory(strings.TrimSpace(path))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d entries imported", n), nil
	}
	return "", fmt.Errorf("%w: %s (try help)", ErrUnknownCommand, name)
}

func (r *REPL) editStep(edit func(*chain.Step)) {
	step := r.sess.Draft()
	edit(&step)
	r.sess.SetStep(step)
}

// resolve parses on/off, toggling current when arg is empty.
func resolve(arg string, current bool) bool {
	switch strings.ToLower(arg) {
	case "":
		return !current
	case "on", "yes":
		return true
	case "off", "no":
		return false
	}
	v, err := strconv.ParseBool(arg)
	if err != nil {
		return current
	}
	return v
}

func validSwitch(arg string) error {
	switch strings.ToLower(arg) {
	case "", "on", "off", "yes", "no":
		return nil
	}
	if _, err := strconv.ParseBool(arg); err != nil {
		return fmt.Errorf("expected on or off, got %q", arg)
	}
	return nil
}

func (r *REPL) toggleFlag(arg string, field func(*chain.Flags) *bool) (string, error) {
	if err := validSwitch(arg); err != nil {
		return "", err
	}
	flags := r.sess.Flags()
	p := field(&flags)
	*p = resolve(arg, *p)
	r.sess.SetFlags(flags)
	return r.sess.Command(), nil
}

func (r *REPL) setMode(arg string) (string, error) {
	switch arg {
	case "":
		return r.sess.Mode().String(), nil
	case "chain":
		r.sess.SetMode(session.ModeChain)
	case "single":
		r.sess.SetMode(session.ModeSingle)
	default:
		return "", fmt.Errorf("mode must be chain or single, got %q", arg)
	}
	return r.sess.Command(), nil
}

func (r *REPL) preview() string {
	return r.sess.Preview().PreviewText()
}

func (r *REPL) listSteps() string {
	steps := r.sess.Steps()
	if len(steps) == 0 {
		return "(no steps)"
	}
	var b strings.Builder
	for i, s := range steps {
		kind := "substitute"
		if s.IsDelete() {
			kind = "delete"
		}
		fmt.Fprintf(&b, "%d. %s %q", i+1, kind, s.Pattern)
		if !s.IsDelete() {
			fmt.Fprintf(&b, " -> %q", s.Replacement)
			if s.Global {
				b.WriteString(" g")
			}
		}
		if s.HasRange() {
			fmt.Fprintf(&b, " [%s]", s.Range)
		}
		if i < len(steps)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (r *REPL) listPresets() string {
	if len(r.presets) == 0 {
		return "(no presets)"
	}
	var b strings.Builder
	for i, p := range r.presets {
		fmt.Fprintf(&b, "%2d. %-28s %s", i+1, p.Name, p.Pattern)
		if i < len(r.presets)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// applyPreset selects a preset by 1-based number or case-insensitive name.
func (r *REPL) applyPreset(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("usage: preset NUMBER|NAME")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(r.presets) {
			return "", fmt.Errorf("no preset %d (have %d)", n, len(r.presets))
		}
		r.sess.ApplyPreset(r.presets[n-1])
		return r.sess.Command(), nil
	}
	for _, p := range r.presets {
		if strings.EqualFold(p.Name, arg) {
			r.sess.ApplyPreset(p)
			return r.sess.Command(), nil
		}
	}
	return "", fmt.Errorf("no preset named %q", arg)
}

func (r *REPL) listHistory() (string, error) {
	entries := r.sess.History().Newest()
	if len(entries) == 0 {
		return "", session.ErrEmptyHistory
	}
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%s  %s", e.Timestamp.Format("15:04:05"), e.Command)
		if i < len(entries)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func (r *REPL) export(arg string) (string, error) {
	kind, path, _ := strings.Cut(arg, " ")
	path = strings.TrimSpace(path)
	switch kind {
	case "script":
		if path == "" {
			path = "sed_script.sh"
		}
		if err := r.sess.ExportScript(path); err != nil {
			return "", err
		}
		return "script saved to " + path, nil
	case "history":
		if path == "" {
			path = "sed_history.txt"
		}
		if err := r.sess.ExportHistory(path); err != nil {
			return "", err
		}
		return "history saved to " + path, nil
	}
	return "", errors.New("usage: export script|history [PATH]")
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("pattern"),
		readline.PcItem("replace"),
		readline.PcItem("delete"),
		readline.PcItem("range"),
		readline.PcItem("global", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("extended", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("inplace", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("escape", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("mode", readline.PcItem("chain"), readline.PcItem("single")),
		readline.PcItem("file"),
		readline.PcItem("add"),
		readline.PcItem("undo"),
		readline.PcItem("clear"),
		readline.PcItem("steps"),
		readline.PcItem("presets"),
		readline.PcItem("preset"),
		readline.PcItem("sample"),
		readline.PcItem("load"),
		readline.PcItem("show"),
		readline.PcItem("render"),
		readline.PcItem("copy"),
		readline.PcItem("history", readline.PcItem("clear")),
		readline.PcItem("export", readline.PcItem("script"), readline.PcItem("history")),
		readline.PcItem("import", readline.PcItem("history")),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

const helpText = `Step:
  pattern TEXT        set the pattern (rest of line, verbatim)
  replace TEXT        set the replacement; DELETE makes a delete step
  delete              make the current step a delete step
  range [N|N,M|N,$]   restrict to lines; empty clears
  global [on|off]     replace every match on a line
Chain:
  add                 append the current step
  undo                remove the last step
  clear               remove all steps
  steps               list the chain
Command:
  extended [on|off]   -E
  inplace [on|off]    -i
  escape [on|off]     escape delimiters and quotes
  mode [chain|single] rendering mode
  file NAME           target file in the command
Preview:
  sample TEXT         set sample input (\n for newlines)
  load PATH           load sample input from a file
  show                print command and preview
  render              like show; records the command in single mode
Presets:
  presets             list presets
  preset N|NAME       fill pattern and replacement from a preset
Output:
  copy                print the command and record it
  history             list recorded commands, newest first
  history clear       forget recorded commands
  export script [PATH]
  export history [PATH]  (.json for JSON)
  import history PATH
  quit`
