package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// field is an editable text input. Single-line fields drop newlines.
type field struct {
	label     string
	text      []rune
	cursor    int
	multiline bool
}

func newField(label, text string, multiline bool) *field {
	f := &field{label: label, multiline: multiline}
	f.set(text)
	return f
}

func (f *field) String() string {
	return string(f.text)
}

// set replaces the text and moves the cursor to the end.
func (f *field) set(s string) {
	f.text = []rune(s)
	if !f.multiline {
		f.text = dropNewlines(f.text)
	}
	f.cursor = len(f.text)
}

func (f *field) insert(r rune) {
	if r == '\n' && !f.multiline {
		return
	}
	f.text = append(f.text, 0)
	copy(f.text[f.cursor+1:], f.text[f.cursor:])
	f.text[f.cursor] = r
	f.cursor++
}

func (f *field) backspace() bool {
	if f.cursor == 0 {
		return false
	}
	f.text = append(f.text[:f.cursor-1], f.text[f.cursor:]...)
	f.cursor--
	return true
}

func (f *field) deleteForward() bool {
	if f.cursor >= len(f.text) {
		return false
	}
	f.text = append(f.text[:f.cursor], f.text[f.cursor+1:]...)
	return true
}

// handleKey applies an editing key. Returns true if the text changed.
func (f *field) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		f.insert(ev.Rune())
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return f.backspace()
	case tcell.KeyDelete:
		return f.deleteForward()
	case tcell.KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
	case tcell.KeyRight:
		if f.cursor < len(f.text) {
			f.cursor++
		}
	case tcell.KeyHome:
		f.cursor = 0
	case tcell.KeyEnd:
		f.cursor = len(f.text)
	case tcell.KeyCtrlU:
		if len(f.text) == 0 {
			return false
		}
		f.text = f.text[:0]
		f.cursor = 0
		return true
	}
	return false
}

// cursorColumn is the display column of the cursor on its line, and the
// zero-based line it is on.
func (f *field) cursorColumn() (col, line int) {
	start := 0
	for i := 0; i < f.cursor; i++ {
		if f.text[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return uniseg.StringWidth(displayText(string(f.text[start:f.cursor]))), line
}

func dropNewlines(rs []rune) []rune {
	out := rs[:0]
	for _, r := range rs {
		if r != '\n' && r != '\r' {
			out = append(out, r)
		}
	}
	return out
}
