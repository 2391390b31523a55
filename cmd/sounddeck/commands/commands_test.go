package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sounddeck/config"
	"go-sounddeck/songs"
)

// syncBuffer is written from the playback goroutine and the command at once
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	return runWith(t, path, args...)
}

func runWith(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	out := &syncBuffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), configPath, err
}

func TestParseCommand(t *testing.T) {
	out, _, err := run(t, "parse", "C4.D - E5")
	require.NoError(t, err)
	assert.Contains(t, out, "C4")
	assert.Contains(t, out, "261.63")
	assert.Contains(t, out, "rest")
	assert.Contains(t, out, "E5")
	assert.Contains(t, out, "4 notes, 1.25 beats")
}

func TestParseTranspose(t *testing.T) {
	out, _, err := run(t, "parse", "--transpose", "12", "A4")
	require.NoError(t, err)
	assert.Contains(t, out, "A5")
	assert.Contains(t, out, "880.00")
}

func TestSongsCommand(t *testing.T) {
	out, _, err := run(t, "songs")
	require.NoError(t, err)
	for _, id := range songs.IDs() {
		assert.Contains(t, out, id)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	out, _, err := runWith(t, path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, _, err = runWith(t, path, "config", "reset")
	require.NoError(t, err)
	assert.FileExists(t, path)

	out, _, err = runWith(t, path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"output": "synth"`)
}

func TestPlayDryRun(t *testing.T) {
	dir := t.TempDir()
	scorePath := filepath.Join(dir, "tune.yaml")
	require.NoError(t, os.WriteFile(scorePath, []byte(`
title: Tune
staves:
  - instrument: bell
    notes: C... D... E... F...
  - instrument: snap
    notes: C2... -... C2... -...
`), 0644))

	configPath := filepath.Join(dir, "config.json")
	out, _, err := runWith(t, configPath, "play", scorePath, "--dry-run", "--tempo", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Tune: 4 beats")
	assert.Contains(t, out, "tone")
	assert.Contains(t, out, "noise")
	assert.Contains(t, out, "Tune: finished")

	cfg, err := config.LoadFrom(configPath)
	require.NoError(t, err)
	assert.Equal(t, scorePath, cfg.UI.LastSong)
}

func TestPlayTranspose(t *testing.T) {
	dir := t.TempDir()
	scorePath := filepath.Join(dir, "a.yaml")
	require.NoError(t, os.WriteFile(scorePath, []byte("staves:\n  - instrument: bell\n    notes: A4\n"), 0644))

	out, _, err := run(t, "play", scorePath, "--dry-run", "--tempo", "40", "--transpose", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "880.00 Hz")
}

func TestPlayUnknownSong(t *testing.T) {
	_, _, err := run(t, "play", "no_such_song", "--dry-run")
	require.ErrorIs(t, err, songs.ErrNotFound)
}

func TestPlayBadScore(t *testing.T) {
	scorePath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(scorePath, []byte("staves:\n  - instrument: kazoo\n    notes: C\n"), 0644))

	_, _, err := run(t, "play", scorePath, "--dry-run")
	assert.ErrorContains(t, err, "kazoo")
}

func TestToneCommand(t *testing.T) {
	out, _, err := run(t, "tone", "440", "-o", "dry", "--duration", "0.01")
	require.NoError(t, err)
	assert.Contains(t, out, "440.00 Hz")

	out, _, err = run(t, "tone", "Whoosh", "-o", "dry")
	require.NoError(t, err)
	assert.Contains(t, out, "noise")

	out, _, err = run(t, "tone", "C4 E", "-o", "dry", "--tempo", "40", "-i", "organ")
	require.NoError(t, err)
	assert.Contains(t, out, "261.63 Hz")
	assert.Contains(t, out, "organ")

	_, _, err = run(t, "tone", "440", "-o", "dry", "--waveform", "wobble")
	assert.Error(t, err)
}

func TestUnknownOutput(t *testing.T) {
	_, _, err := run(t, "tone", "440", "-o", "cassette")
	assert.ErrorContains(t, err, "cassette")
}
