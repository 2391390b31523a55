package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Output selects which deck plays the music
type Output string

const (
	OutputSynth Output = "synth" // audio device via oto
	OutputMIDI  Output = "midi"  // external gear
	OutputDry   Output = "dry"   // record and print, no sound
)

// MIDIConfig defines the MIDI output and keyboard input
type MIDIConfig struct {
	Port      string `json:"port,omitempty"`
	Channel   int    `json:"channel,omitempty"` // 1-16
	Kit       string `json:"kit,omitempty"`
	InputPort string `json:"inputPort,omitempty"`
}

// AudioConfig defines the synth output
type AudioConfig struct {
	SampleRate   int     `json:"sampleRate,omitempty"`
	MasterVolume float64 `json:"masterVolume"`
}

// PlaybackConfig holds defaults for the play command
type PlaybackConfig struct {
	Tempo       float64 `json:"tempo,omitempty"`
	Loop        bool    `json:"loop,omitempty"`
	FadeSeconds float64 `json:"fadeSeconds,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette   string  `json:"palette,omitempty"` // path to a GIMP .gpl file
	LastTempo float64 `json:"lastTempo,omitempty"`
	LastSong  string  `json:"lastSong,omitempty"`
}

// DebugConfig controls the debug log
type DebugConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Output   Output         `json:"output,omitempty"`
	MIDI     MIDIConfig     `json:"midi,omitempty"`
	Audio    AudioConfig    `json:"audio,omitempty"`
	Playback PlaybackConfig `json:"playback,omitempty"`
	UI       UIConfig       `json:"ui,omitempty"`
	Debug    DebugConfig    `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputSynth,
		MIDI: MIDIConfig{
			Channel: 1,
			Kit:     "gm",
		},
		Audio: AudioConfig{
			SampleRate:   44100,
			MasterVolume: 0.8,
		},
		Playback: PlaybackConfig{
			Tempo:       4,
			FadeSeconds: 2,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-sounddeck"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Missing files give defaults; fields
// absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate clamps out-of-range values back to something playable
func (c *Config) Validate() {
	switch c.Output {
	case OutputSynth, OutputMIDI, OutputDry:
	default:
		c.Output = OutputSynth
	}

	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		c.MIDI.Channel = 1
	}
	if c.MIDI.Kit == "" {
		c.MIDI.Kit = "gm"
	}

	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	c.Audio.MasterVolume = clamp(c.Audio.MasterVolume, 0, 1)

	if c.Playback.Tempo < 1 {
		c.Playback.Tempo = 1
	}
	if c.Playback.FadeSeconds < 0.1 {
		c.Playback.FadeSeconds = 0.1
	}
	if c.UI.LastTempo != 0 && c.UI.LastTempo < 1 {
		c.UI.LastTempo = 1
	}
}

// Tempo is the tempo to start playback at: the last one used, else the default
func (c *Config) Tempo() float64 {
	if c.UI.LastTempo >= 1 {
		return c.UI.LastTempo
	}
	return c.Playback.Tempo
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
