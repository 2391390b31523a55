package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBar renders a horizontal bar filled to frac (0-1) of width cells
func RenderBar(width int, frac float64, full, empty rune, fill, rest lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	n := int(math.Round(frac * float64(width)))
	return fill.Render(strings.Repeat(string(full), n)) +
		rest.Render(strings.Repeat(string(empty), width-n))
}

// RenderBeats renders one cell per beat of a bar, lighting the current one
func RenderBeats(beat float64, perBar int, on, off rune, lit, dim lipgloss.Style) string {
	if perBar <= 0 {
		return ""
	}
	current := int(beat) % perBar
	var out strings.Builder
	for i := 0; i < perBar; i++ {
		if i > 0 {
			out.WriteString(" ")
		}
		if i == current {
			out.WriteString(lit.Render(string(on)))
		} else {
			out.WriteString(dim.Render(string(off)))
		}
	}
	return out.String()
}

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
