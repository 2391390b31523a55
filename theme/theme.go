package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// DefaultPalette is the embedded palette used when none is configured
const DefaultPalette = "plasma"

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// progress and level bars
	BarFull  rune // █
	BarEmpty rune // ░

	// beat indicator
	Beat    rune // ● whole beat just played
	Offbeat rune // · waiting

	// transport state
	Play  rune // ▶
	Pause rune // ‖
	Stop  rune // ■
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			BarFull:  '█',
			BarEmpty: '░',

			Beat:    '●',
			Offbeat: '·',

			Play:  '▶',
			Pause: '‖',
			Stop:  '■',
		},
	}
}

// Load builds a theme from a .gpl file, falling back to the embedded palette
// when path is empty
func Load(path string) (*Theme, error) {
	var (
		p   *Palette
		err error
	)
	if path == "" {
		p, err = Builtin(DefaultPalette)
	} else {
		p, err = LoadGPL(path)
	}
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.3 // purple-magenta
	RoleFG      = 0.6 // coral (readable)
	RoleAccent  = 0.45
	RoleActive  = 0.7 // orange
	RoleWarning = 0.8
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
