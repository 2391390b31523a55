package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPalette(t *testing.T) {
	p, err := Builtin(DefaultPalette)
	require.NoError(t, err)
	assert.Equal(t, "plasma", p.Name)
	require.Len(t, p.Colors, 10)
	assert.Equal(t, RGB{13, 8, 135}, p.Lookup(0))
	assert.Equal(t, RGB{240, 249, 33}, p.Lookup(1))

	_, err = Builtin("nope")
	assert.Error(t, err)
}

func TestLookupInterpolates(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{200, 100, 50}, p.Lookup(2))
}

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader("GIMP Palette\nName: mono\n# comment\n255 255 255 white\nnot a color\n"))
	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)
	assert.Equal(t, []RGB{{255, 255, 255}}, p.Colors)

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Error(t, err)

	p, err = ParseGPL(strings.NewReader("GIMP Palette\nColumns: 2\n300 0 0 too bright\n-1 0 0\n1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []RGB{{1, 2, 3}}, p.Colors, "out of range components are skipped")
}

func TestLoadTheme(t *testing.T) {
	th, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, lipgloss.Color("#0d0887"), th.BG())
	assert.Equal(t, lipgloss.Color("#f0f921"), th.Success())
	assert.Equal(t, '█', th.Symbols.BarFull)

	path := filepath.Join(t.TempDir(), "two.gpl")
	require.NoError(t, os.WriteFile(path, []byte("0 0 0\n255 0 0\n"), 0644))
	th, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, lipgloss.Color("#ff0000"), th.Color(1))

	_, err = Load(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}
