package widgets

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

var plain = lipgloss.NewStyle()

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "#####.....", RenderBar(10, 0.5, '#', '.', plain, plain))
	assert.Equal(t, "..........", RenderBar(10, -1, '#', '.', plain, plain))
	assert.Equal(t, "####", RenderBar(4, 7, '#', '.', plain, plain))
	assert.Equal(t, "", RenderBar(0, 0.5, '#', '.', plain, plain))
}

func TestRenderBeats(t *testing.T) {
	assert.Equal(t, "· ● · ·", RenderBeats(5, 4, '●', '·', plain, plain))
	assert.Equal(t, "● · · ·", RenderBeats(0.75, 4, '●', '·', plain, plain))
	assert.Equal(t, "", RenderBeats(1, 0, '●', '·', plain, plain))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Transport",
		Keys:  []KeyBinding{{Key: "space", Desc: "pause"}},
	}})
	assert.Equal(t, "Transport\n  space        pause", out)
}
