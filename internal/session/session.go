// Package session owns the state of one editing session and is the only
// entry point presentation layers use.
//
// A Session holds the draft step being edited, the chain of committed
// steps, the command-line flags, the sample text and the history log. Every
// call is synchronous; Render recomputes both the command and the preview
// from scratch. A Session is not safe for concurrent use: presentation
// layers drive it from a single event loop.
package session

import (
	"strings"
	"time"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/compiler"
	"github.com/dshills/sedstudio/internal/history"
	"github.com/dshills/sedstudio/internal/logging"
	"github.com/dshills/sedstudio/internal/presets"
	"github.com/dshills/sedstudio/internal/preview"
)

// Mode selects how commands are rendered.
type Mode int

const (
	// ModeChain renders the committed chain as a multi-expression command.
	ModeChain Mode = iota
	// ModeSingle renders only the draft step and records every render.
	ModeSingle
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeChain:
		return "chain"
	case ModeSingle:
		return "single"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. Unknown names yield ModeChain.
func ParseMode(s string) Mode {
	if s == "single" {
		return ModeSingle
	}
	return ModeChain
}

// Options configures a new Session.
type Options struct {
	Flags      chain.Flags
	Mode       Mode
	Filename   string
	SampleText string

	// Global is the initial global flag of the draft step.
	Global bool

	HistoryMax int
	Logger     *logging.Logger

	// Now is the clock used for export timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Result is the outcome of a render.
type Result struct {
	Command string
	Preview string

	// Err is a preview failure. The command is still valid.
	Err error
}

// PreviewText returns what the preview panel shows: the transformed text,
// or the error message in its place.
func (r Result) PreviewText() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Preview
}

// Session is the state of one editing session.
type Session struct {
	draft    chain.Step
	chain    *chain.Chain
	flags    chain.Flags
	mode     Mode
	filename string
	sample   string

	history *history.Log
	logger  *logging.Logger
	now     func() time.Time
}

// New creates a session.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		draft:    chain.Step{Global: opts.Global},
		chain:    chain.New(),
		flags:    opts.Flags,
		mode:     opts.Mode,
		filename: opts.Filename,
		sample:   opts.SampleText,
		history:  history.New(opts.HistoryMax),
		logger:   logger.WithComponent("session"),
		now:      now,
	}
}

// SetStep replaces the draft step.
func (s *Session) SetStep(step chain.Step) {
	s.draft = step
}

// Draft returns the draft step.
func (s *Session) Draft() chain.Step {
	return s.draft
}

// ApplyPreset fills the draft pattern and replacement from p, keeping its
// global flag and range.
func (s *Session) ApplyPreset(p presets.Preset) {
	step := p.Step(s.draft.Global)
	step.Range = s.draft.Range
	s.draft = step
	s.logger.Debug("preset applied", "preset", p.Name)
}

// AppendStep commits the draft to the end of the chain. A draft with an
// empty pattern is ignored. Returns true if a step was added.
func (s *Session) AppendStep() bool {
	if !s.chain.Append(s.draft) {
		return false
	}
	s.logger.Debug("step appended", "pattern", s.draft.Pattern, "steps", s.chain.Len())
	return true
}

// RemoveLastStep removes the tail of the chain. Returns true if a step was
// removed.
func (s *Session) RemoveLastStep() bool {
	_, ok := s.chain.RemoveLast()
	if ok {
		s.logger.Debug("step removed", "steps", s.chain.Len())
	}
	return ok
}

// ClearChain removes every step.
func (s *Session) ClearChain() {
	s.chain.Clear()
	s.logger.Debug("chain cleared")
}

// Steps returns the committed steps in order.
func (s *Session) Steps() []chain.Step {
	return s.chain.List()
}

// SetFlags replaces the command-line flags.
func (s *Session) SetFlags(f chain.Flags) {
	s.flags = f
}

// Flags returns the command-line flags.
func (s *Session) Flags() chain.Flags {
	return s.flags
}

// SetMode switches between chain and single-step rendering.
func (s *Session) SetMode(m Mode) {
	s.mode = m
}

// Mode returns the rendering mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// SetFilename sets the target file named in the command. Empty means the
// placeholder for the current mode.
func (s *Session) SetFilename(name string) {
	s.filename = name
}

// Filename returns the target file name as entered.
func (s *Session) Filename() string {
	return s.filename
}

// SetSample replaces the preview input.
func (s *Session) SetSample(text string) {
	s.sample = text
}

// Sample returns the preview input.
func (s *Session) Sample() string {
	return s.sample
}

// History returns the session's command history.
func (s *Session) History() *history.Log {
	return s.history
}

// Command renders the current command without side effects.
func (s *Session) Command() string {
	if s.mode == ModeSingle {
		return compiler.RenderSingle(s.draft, s.flags, s.filename)
	}
	return compiler.RenderChain(s.chain.List(), s.flags, s.filename)
}

// Render recomputes the command and the preview. In single-step mode the
// command is also recorded in the history.
func (s *Session) Render() Result {
	res := s.Preview()
	if s.mode == ModeSingle {
		s.history.Append(res.Command)
	}
	return res
}

// Preview recomputes the command and the preview without touching the
// history. Presentation layers call it on every edit.
func (s *Session) Preview() Result {
	res := Result{Command: s.Command()}

	var steps []chain.Step
	switch s.mode {
	case ModeSingle:
		if s.draft.Pattern != "" {
			steps = []chain.Step{s.draft}
		}
	default:
		steps = s.chain.List()
	}

	res.Preview, res.Err = preview.SimulateText(steps, s.sample)
	if res.Err != nil {
		s.logger.Debug("preview failed", "error", res.Err)
	}
	return res
}

// CopyCommand returns the current command for the clipboard and records
// it in the history. It fails with ErrNoCommand if the command is blank.
func (s *Session) CopyCommand() (string, error) {
	cmd := s.Command()
	if strings.TrimSpace(cmd) == "" {
		return "", ErrNoCommand
	}
	s.history.Append(cmd)
	return cmd, nil
}
