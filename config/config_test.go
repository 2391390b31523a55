package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, OutputSynth, cfg.Output)
	assert.Equal(t, 4.0, cfg.Tempo())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Output = OutputMIDI
	cfg.MIDI.Port = "IAC Driver Bus 1"
	cfg.MIDI.Channel = 10
	cfg.UI.LastTempo = 6.5
	require.NoError(t, cfg.Save())

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, filepath.Join(".config", "go-sounddeck"))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 6.5, loaded.Tempo())
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"output":"dry","playback":{"loop":true}}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, OutputDry, cfg.Output)
	assert.True(t, cfg.Playback.Loop)
	assert.Equal(t, 4.0, cfg.Playback.Tempo)
	assert.Equal(t, 0.8, cfg.Audio.MasterVolume)
}

func TestValidateClamps(t *testing.T) {
	cfg := &Config{
		Output:   "speakers",
		MIDI:     MIDIConfig{Channel: 17},
		Audio:    AudioConfig{MasterVolume: 3},
		Playback: PlaybackConfig{Tempo: 0.2},
		UI:       UIConfig{LastTempo: 0.5},
	}
	cfg.Validate()

	assert.Equal(t, OutputSynth, cfg.Output)
	assert.Equal(t, 1, cfg.MIDI.Channel)
	assert.Equal(t, "gm", cfg.MIDI.Kit)
	assert.Equal(t, 1.0, cfg.Audio.MasterVolume)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 1.0, cfg.Playback.Tempo)
	assert.Equal(t, 0.1, cfg.Playback.FadeSeconds)
	assert.Equal(t, 1.0, cfg.UI.LastTempo)
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}
