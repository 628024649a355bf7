package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sedstudio/internal/config"
)

// styles are the resolved colors of a theme.
type styles struct {
	base       tcell.Style
	accent     tcell.Style
	label      tcell.Style
	field      tcell.Style
	fieldFocus tcell.Style
	command    tcell.Style
	preview    tcell.Style
	err        tcell.Style
	warn       tcell.Style
	button     tcell.Style
	copied     tcell.Style
	dim        tcell.Style
	selected   tcell.Style
}

func newStyles(t config.Theme) styles {
	base := tcell.StyleDefault
	accent := themeColor(t.Accent, tcell.ColorSteelBlue)
	command := themeColor(t.Command, tcell.ColorOrange)

	return styles{
		base:       base,
		accent:     base.Foreground(accent).Bold(true),
		label:      base.Bold(true),
		field:      base.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite),
		fieldFocus: base.Background(accent).Foreground(tcell.ColorWhite),
		command:    base.Foreground(command),
		preview:    base.Foreground(themeColor(t.Preview, tcell.ColorGreen)),
		err:        base.Foreground(themeColor(t.Error, tcell.ColorRed)),
		warn:       base.Foreground(tcell.ColorYellow),
		button:     base.Background(command).Foreground(tcell.ColorBlack),
		copied:     base.Background(themeColor(t.Copied, tcell.ColorGreen)).Foreground(tcell.ColorBlack),
		dim:        base.Dim(true),
		selected:   base.Reverse(true),
	}
}

// themeColor converts a hex color, falling back when it is empty or
// malformed. Config validation reports malformed colors before we get here.
func themeColor(hex string, fallback tcell.Color) tcell.Color {
	if hex == "" {
		return fallback
	}
	r, g, b, err := config.ParseColor(hex)
	if err != nil {
		return fallback
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
