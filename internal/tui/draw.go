package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/compiler"
	"github.com/dshills/sedstudio/internal/preview"
	"github.com/dshills/sedstudio/internal/session"
)

// Layout constants.
const (
	labelWidth   = 14
	sidebarWidth = 30
	// minSidebarScreen is the narrowest screen that still shows presets.
	minSidebarScreen = 90
	maxChainRows     = 6
)

// Button labels.
const (
	copyLabel   = "[ Copy Command ^Y ]"
	copiedLabel = "[ Copied! ]"
)

const helpLine = "Tab next  ^A add  ^R undo  ^L clear  ^Y copy  ^S script  ^E history  ^O sample  F2-F5 options  F6/F7/F8 presets  ^Q quit"

// drawText draws text at (x, y) clipped to width columns. Returns the
// number of columns used.
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) int {
	col := 0
	g := uniseg.NewGraphemes(displayText(text))
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if col+w > width {
			break
		}
		rs := g.Runes()
		s.SetContent(x+col, y, rs[0], rs[1:], style)
		col += w
	}
	return col
}

// fill paints width columns starting at (x, y).
func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}

// displayText expands tabs so every grapheme has a width.
func displayText(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// draw repaints the whole screen.
func (a *App) draw() {
	s := a.screen
	s.Clear()
	s.HideCursor()

	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	formWidth := w
	if w >= minSidebarScreen {
		formWidth = w - sidebarWidth - 1
		a.drawPresets(w-sidebarWidth, 2, sidebarWidth, h-4)
	}

	a.drawTitle(w)

	y := 2
	for i := fieldPattern; i < fieldSample; i++ {
		a.drawField(i, 0, y, formWidth)
		y++
	}
	drawText(s, labelWidth, y, formWidth-labelWidth, a.styles.dim, deleteHint)
	y += 2

	a.drawOptions(0, y, formWidth)
	y += 2

	drawText(s, 0, y, labelWidth, a.styles.label, "Command")
	drawText(s, labelWidth, y, formWidth-labelWidth, a.styles.command, a.result.Command)
	y++
	if a.copied {
		drawText(s, labelWidth, y, formWidth-labelWidth, a.styles.copied, copiedLabel)
	} else {
		drawText(s, labelWidth, y, formWidth-labelWidth, a.styles.button, copyLabel)
	}
	y += 2

	y = a.drawChain(0, y, formWidth)
	y++

	bottom := h - 2
	if bottom > y {
		a.drawPanels(0, y, formWidth, bottom-y)
	}

	a.drawStatus(w, h)
	a.placeCursor(formWidth)
	s.Show()
}

var deleteHint = fmt.Sprintf("replacement %q deletes matching lines", chain.DeleteSentinel)

func (a *App) drawTitle(w int) {
	fill(a.screen, 0, 0, w, a.styles.accent.Reverse(true))
	title := " Sed Studio "
	drawText(a.screen, 0, 0, w, a.styles.accent.Reverse(true), title)
	mode := fmt.Sprintf("mode: %s ", a.sess.Mode())
	if mw := uniseg.StringWidth(mode); mw < w-len(title) {
		drawText(a.screen, w-mw, 0, mw, a.styles.accent.Reverse(true), mode)
	}
}

func (a *App) drawField(i, x, y, width int) {
	f := a.fields[i]
	drawText(a.screen, x, y, labelWidth, a.styles.label, f.label)

	style := a.styles.field
	if a.focus == i && a.prompt == promptNone {
		style = a.styles.fieldFocus
	}
	boxWidth := width - labelWidth - x
	if boxWidth <= 0 {
		return
	}
	fill(a.screen, x+labelWidth, y, boxWidth, style)
	drawText(a.screen, x+labelWidth, y, boxWidth, style, f.String())
}

func (a *App) drawOptions(x, y, width int) {
	flags := a.sess.Flags()
	opts := fmt.Sprintf("%s global F2   %s extended -E F3   %s in-place -i F4   mode %s F5",
		checkbox(a.global), checkbox(flags.Extended), checkbox(flags.InPlace), a.sess.Mode())
	drawText(a.screen, x, y, labelWidth, a.styles.label, "Options")
	drawText(a.screen, x+labelWidth, y, width-labelWidth-x, a.styles.base, opts)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// drawChain lists the committed steps. Returns the next free row.
func (a *App) drawChain(x, y, width int) int {
	if a.sess.Mode() == session.ModeSingle {
		msg := fmt.Sprintf("Single-step mode: Enter records the command (%d in history)", a.sess.History().Len())
		drawText(a.screen, x, y, width, a.styles.dim, msg)
		return y + 1
	}

	steps := a.sess.Steps()
	drawText(a.screen, x, y, width, a.styles.label, fmt.Sprintf("Chain (%d steps)", len(steps)))
	y++
	if len(steps) == 0 {
		drawText(a.screen, x+2, y, width-2, a.styles.dim, "empty: ^A adds the current step")
		return y + 1
	}

	// Show the tail; the newest step is the one ^R removes.
	first := 0
	if len(steps) > maxChainRows {
		first = len(steps) - maxChainRows
		drawText(a.screen, x+2, y, width-2, a.styles.dim, fmt.Sprintf("... %d more", first))
		y++
	}
	escape := a.sess.Flags().EscapeDelimiters
	for i := first; i < len(steps); i++ {
		line := fmt.Sprintf("%d. %s", i+1, compiler.Expression(steps[i], escape))
		drawText(a.screen, x+2, y, width-2, a.styles.base, line)
		y++
	}
	return y
}

// drawPanels draws the sample and preview side by side.
func (a *App) drawPanels(x, y, width, height int) {
	half := width / 2
	sampleStyle := a.styles.label
	if a.focus == fieldSample && a.prompt == promptNone {
		sampleStyle = a.styles.accent
	}
	drawText(a.screen, x, y, half-1, sampleStyle, "Sample Input")
	drawText(a.screen, x+half, y, width-half, a.styles.label, "Preview")

	body := height - 1
	drawLines(a.screen, x, y+1, half-1, body, a.styles.base, a.fields[fieldSample].String())

	style := a.styles.preview
	if a.result.Err != nil {
		style = a.styles.err
	}
	drawLines(a.screen, x+half, y+1, width-half, body, style, a.result.PreviewText())
}

func drawLines(s tcell.Screen, x, y, width, height int, style tcell.Style, text string) {
	for i, line := range preview.SplitLines(text) {
		if i >= height {
			return
		}
		drawText(s, x, y+i, width, style, line)
	}
}

func (a *App) drawPresets(x, y, width, height int) {
	drawText(a.screen, x, y, width, a.styles.label, "Presets F6/F7, F8 apply")
	for i, p := range a.presets {
		if i+1 >= height {
			break
		}
		style := a.styles.base
		if i == a.presetIdx {
			style = a.styles.selected
		}
		drawText(a.screen, x, y+1+i, width, style, p.Name)
	}
}

func (a *App) drawStatus(w, h int) {
	if a.prompt != promptNone {
		label := a.promptLabel()
		n := drawText(a.screen, 0, h-2, w, a.styles.label, label)
		fill(a.screen, n, h-2, w-n, a.styles.fieldFocus)
		drawText(a.screen, n, h-2, w-n, a.styles.fieldFocus, a.promptField.String())
	} else if a.status != "" {
		style := a.styles.base
		switch a.statusKind {
		case statusWarn:
			style = a.styles.warn
		case statusError:
			style = a.styles.err
		}
		drawText(a.screen, 0, h-2, w, style, a.status)
	}
	drawText(a.screen, 0, h-1, w, a.styles.dim, helpLine)
}

// placeCursor shows the cursor in the focused input.
func (a *App) placeCursor(formWidth int) {
	_, h := a.screen.Size()
	if a.prompt != promptNone {
		col, _ := a.promptField.cursorColumn()
		a.screen.ShowCursor(uniseg.StringWidth(a.promptLabel())+col, h-2)
		return
	}
	if a.focus == fieldSample {
		// The sample panel origin moves with the chain length; the
		// highlighted panel title marks focus instead.
		return
	}
	col, _ := a.fields[a.focus].cursorColumn()
	if labelWidth+col < formWidth {
		a.screen.ShowCursor(labelWidth+col, 2+a.focus)
	}
}
