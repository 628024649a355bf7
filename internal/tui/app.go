// Package tui is the terminal front end of Sed Studio.
//
// The App owns a tcell screen and a session. Every key press edits a form
// field or triggers a session operation, after which the command and the
// preview are recomputed and the screen is repainted. Timers and the config
// watcher never touch state directly: they post interrupt events that the
// event loop handles like key presses.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/config"
	"github.com/dshills/sedstudio/internal/logging"
	"github.com/dshills/sedstudio/internal/presets"
	"github.com/dshills/sedstudio/internal/session"
)

// DefaultCopiedDuration is how long the copy button reads "Copied!".
const DefaultCopiedDuration = 2 * time.Second

// Default file names offered by the export prompts.
const (
	DefaultScriptName  = "sed_script.sh"
	DefaultHistoryName = "sed_history.txt"
)

// Form fields in focus order.
const (
	fieldPattern = iota
	fieldReplacement
	fieldRange
	fieldFilename
	fieldSample
	fieldCount
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarn
	statusError
)

type promptKind int

const (
	promptNone promptKind = iota
	promptScript
	promptHistory
	promptSample
)

// Interrupt payloads.
type (
	quitEvent  struct{}
	copyRevert struct{ gen int }

	reloadEvent struct {
		theme   config.Theme
		presets []presets.Preset
		err     error
	}
)

// Options configures an App.
type Options struct {
	Presets []presets.Preset
	Theme   config.Theme
	Logger  *logging.Logger

	// CopiedDuration overrides DefaultCopiedDuration.
	CopiedDuration time.Duration
}

// App is the terminal user interface.
type App struct {
	screen tcell.Screen
	sess   *session.Session
	logger *logging.Logger
	styles styles

	fields [fieldCount]*field
	focus  int
	global bool

	presets   []presets.Preset
	presetIdx int

	result session.Result

	status     string
	statusKind statusKind

	prompt      promptKind
	promptField *field

	copied     bool
	copyGen    int
	copyTimer  *time.Timer
	copiedTime time.Duration

	pasting bool
}

// New creates an App drawing on screen. The screen must be initialized;
// the caller finalizes it after Run returns.
func New(screen tcell.Screen, sess *session.Session, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	copiedTime := opts.CopiedDuration
	if copiedTime <= 0 {
		copiedTime = DefaultCopiedDuration
	}

	draft := sess.Draft()
	a := &App{
		screen:     screen,
		sess:       sess,
		logger:     logger.WithComponent("tui"),
		styles:     newStyles(opts.Theme),
		global:     draft.Global,
		presets:    opts.Presets,
		copiedTime: copiedTime,
	}
	a.fields[fieldPattern] = newField("Pattern", draft.Pattern, false)
	a.fields[fieldReplacement] = newField("Replacement", draft.Replacement, false)
	a.fields[fieldRange] = newField("Line range", draft.Range, false)
	a.fields[fieldFilename] = newField("File", sess.Filename(), false)
	a.fields[fieldSample] = newField("Sample", sess.Sample(), true)

	a.refresh()
	return a
}

// Run processes events until the user quits or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
	})
	defer stop()
	defer a.stopCopyTimer()

	a.logger.Info("terminal UI started")
	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.HandleEvent(ev) {
			a.logger.Info("terminal UI stopped")
			return ctx.Err()
		}
		a.draw()
	}
}

// PostReload hands reloaded settings to the event loop. Safe to call from
// any goroutine.
func (a *App) PostReload(theme config.Theme, ps []presets.Preset, err error) {
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(reloadEvent{theme: theme, presets: ps, err: err}))
}

// HandleEvent processes one event. Returns true when the app should exit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventPaste:
		a.pasting = e.Start()
	case *tcell.EventInterrupt:
		return a.handleInterrupt(e.Data())
	case *tcell.EventKey:
		return a.handleKey(e)
	}
	return false
}

func (a *App) handleInterrupt(data any) bool {
	switch d := data.(type) {
	case quitEvent:
		return true
	case copyRevert:
		if d.gen == a.copyGen {
			a.copied = false
		}
	case reloadEvent:
		a.applyReload(d)
	}
	return false
}

func (a *App) applyReload(d reloadEvent) {
	if d.err != nil && d.presets == nil {
		a.setStatus(statusError, "Config reload failed: %v", d.err)
		a.logger.Warn("config reload failed", "error", d.err)
		return
	}
	a.styles = newStyles(d.theme)
	a.presets = d.presets
	if a.presetIdx >= len(a.presets) {
		a.presetIdx = 0
	}
	if d.err != nil {
		a.setStatus(statusWarn, "Config reloaded with errors: %v", d.err)
		return
	}
	a.setStatus(statusInfo, "Config reloaded")
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if a.prompt != promptNone {
		a.handlePromptKey(ev)
		return false
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		a.focus = (a.focus + 1) % fieldCount
		return false
	case tcell.KeyBacktab:
		a.focus = (a.focus + fieldCount - 1) % fieldCount
		return false
	case tcell.KeyCtrlA:
		a.appendStep()
	case tcell.KeyCtrlR:
		a.removeStep()
	case tcell.KeyCtrlL:
		a.sess.ClearChain()
		a.setStatus(statusInfo, "Chain cleared")
	case tcell.KeyCtrlY:
		a.copyCommand()
	case tcell.KeyCtrlS:
		a.openPrompt(promptScript, DefaultScriptName)
	case tcell.KeyCtrlE:
		a.openPrompt(promptHistory, DefaultHistoryName)
	case tcell.KeyCtrlO:
		a.openPrompt(promptSample, "")
	case tcell.KeyF2:
		a.global = !a.global
	case tcell.KeyF3:
		flags := a.sess.Flags()
		flags.Extended = !flags.Extended
		a.sess.SetFlags(flags)
	case tcell.KeyF4:
		flags := a.sess.Flags()
		flags.InPlace = !flags.InPlace
		a.sess.SetFlags(flags)
	case tcell.KeyF5:
		a.toggleMode()
	case tcell.KeyF6:
		a.selectPreset(-1)
	case tcell.KeyF7:
		a.selectPreset(1)
	case tcell.KeyF8:
		a.applyPreset()
	case tcell.KeyEnter:
		a.handleEnter()
	default:
		a.fields[a.focus].handleKey(ev)
	}

	a.refresh()
	return false
}

// handleEnter inserts a newline in the sample. In the other fields it
// records the command in single-step mode and otherwise moves focus.
func (a *App) handleEnter() {
	switch {
	case a.focus == fieldSample:
		a.fields[fieldSample].insert('\n')
	case a.pasting:
	case a.sess.Mode() == session.ModeSingle:
		a.sync()
		res := a.sess.Render()
		a.setStatus(statusInfo, "Recorded: %s", res.Command)
	default:
		a.focus = (a.focus + 1) % fieldCount
	}
}

// sync pushes the form into the session.
func (a *App) sync() {
	a.sess.SetStep(chain.Step{
		Pattern:     a.fields[fieldPattern].String(),
		Replacement: a.fields[fieldReplacement].String(),
		Global:      a.global,
		Range:       strings.TrimSpace(a.fields[fieldRange].String()),
	})
	a.sess.SetFilename(strings.TrimSpace(a.fields[fieldFilename].String()))
	a.sess.SetSample(a.fields[fieldSample].String())
}

// refresh recomputes the command and the preview from the form.
func (a *App) refresh() {
	a.sync()
	a.result = a.sess.Preview()
}

func (a *App) appendStep() {
	a.sync()
	if !a.sess.AppendStep() {
		a.setStatus(statusWarn, "Enter a pattern before adding a step")
		return
	}
	a.fields[fieldPattern].set("")
	a.fields[fieldReplacement].set("")
	a.fields[fieldRange].set("")
	a.focus = fieldPattern
	a.setStatus(statusInfo, "Added step %d", len(a.sess.Steps()))
}

func (a *App) removeStep() {
	if !a.sess.RemoveLastStep() {
		a.setStatus(statusWarn, "Chain is empty")
		return
	}
	a.setStatus(statusInfo, "Removed last step")
}

func (a *App) toggleMode() {
	if a.sess.Mode() == session.ModeChain {
		a.sess.SetMode(session.ModeSingle)
	} else {
		a.sess.SetMode(session.ModeChain)
	}
	a.setStatus(statusInfo, "Mode: %s", a.sess.Mode())
}

func (a *App) selectPreset(delta int) {
	if len(a.presets) == 0 {
		return
	}
	a.presetIdx = (a.presetIdx + delta + len(a.presets)) % len(a.presets)
}

func (a *App) applyPreset() {
	if len(a.presets) == 0 {
		a.setStatus(statusWarn, "No presets loaded")
		return
	}
	p := a.presets[a.presetIdx]
	a.sess.ApplyPreset(p)
	a.fields[fieldPattern].set(p.Pattern)
	a.fields[fieldReplacement].set(p.Replacement)
	a.setStatus(statusInfo, "Preset: %s", p.Name)
}

// copyCommand puts the command on the terminal clipboard and flips the
// copy button to "Copied!" until the revert timer fires. A second copy
// restarts the timer.
func (a *App) copyCommand() {
	a.sync()
	cmd, err := a.sess.CopyCommand()
	if err != nil {
		a.showError(err)
		return
	}
	a.screen.SetClipboard([]byte(cmd))

	a.stopCopyTimer()
	a.copied = true
	a.copyGen++
	gen := a.copyGen
	a.copyTimer = time.AfterFunc(a.copiedTime, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(copyRevert{gen: gen}))
	})
	a.logger.Debug("command copied", "command", cmd)
}

func (a *App) stopCopyTimer() {
	if a.copyTimer != nil {
		a.copyTimer.Stop()
		a.copyTimer = nil
	}
}

func (a *App) openPrompt(kind promptKind, initial string) {
	a.prompt = kind
	a.promptField = newField("", initial, false)
}

func (a *App) promptLabel() string {
	switch a.prompt {
	case promptScript:
		return "Export script to: "
	case promptHistory:
		return "Export history to (.json for JSON): "
	case promptSample:
		return "Load sample from: "
	default:
		return ""
	}
}

func (a *App) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.prompt = promptNone
		a.setStatus(statusInfo, "Canceled")
		return
	case tcell.KeyEnter:
		kind, path := a.prompt, strings.TrimSpace(a.promptField.String())
		a.prompt = promptNone
		if path == "" {
			a.setStatus(statusWarn, "No file name given")
			return
		}
		a.runPrompt(kind, path)
		a.refresh()
		return
	}
	a.promptField.handleKey(ev)
}

func (a *App) runPrompt(kind promptKind, path string) {
	a.sync()
	switch kind {
	case promptScript:
		if err := a.sess.ExportScript(path); err != nil {
			a.showError(err)
			return
		}
		a.setStatus(statusInfo, "Script saved to %s", path)
	case promptHistory:
		if err := a.sess.ExportHistory(path); err != nil {
			a.showError(err)
			return
		}
		a.setStatus(statusInfo, "History saved to %s", path)
	case promptSample:
		if err := a.sess.LoadSample(path); err != nil {
			a.showError(err)
			return
		}
		a.fields[fieldSample].set(a.sess.Sample())
		a.setStatus(statusInfo, "Sample loaded from %s", path)
	}
}

// showError reports err in the status line. Empty chain and empty history
// are warnings, not failures.
func (a *App) showError(err error) {
	switch {
	case errors.Is(err, session.ErrEmptyChain):
		a.setStatus(statusWarn, "Chain is empty! Add steps first.")
	case errors.Is(err, session.ErrEmptyHistory):
		a.setStatus(statusWarn, "No history to export.")
	case session.IsWarning(err):
		a.setStatus(statusWarn, "%v", err)
	default:
		a.setStatus(statusError, "Error: %v", err)
	}
}

func (a *App) setStatus(kind statusKind, format string, args ...any) {
	a.statusKind = kind
	a.status = fmt.Sprintf(format, args...)
}
