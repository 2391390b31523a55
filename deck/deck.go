// Package deck defines the sound-producing collaborator the sequencer plays
// notes through, and the configuration types shared by every deck.
//
// A Deck renders single sounds: a tone from an oscillator or a burst of
// filtered noise. Each call returns a Control for that sound, or nil when the
// deck declines to produce it (output disabled, no audio device, ...).
// Implementations live in their own packages (synth for audio, midi for MIDI
// out); Recorder in this package is an in-memory deck.
package deck

// Deck produces tones and noises
type Deck interface {
	PlayTone(cfg ToneConfig) Control
	PlayNoise(cfg NoiseConfig) Control
}

// Control is a handle to one playing sound
type Control interface {
	// Done is closed when the sound has finished or was stopped
	Done() <-chan struct{}
	Stop()
}

// Sampler is implemented by decks that can play named, pre-loaded samples
type Sampler interface {
	PlaySample(name string, opts PlayOptions) Control
}

// Switch is implemented by decks with a master gain and an on/off state
type Switch interface {
	Enable() error
	Disable() error
	Enabled() bool

	Mute()
	Unmute()
	Muted() bool

	MasterVolume() float64
	SetMasterVolume(v float64)
}

// Toggle flips a Switch between enabled and disabled
func Toggle(s Switch) error {
	if s.Enabled() {
		return s.Disable()
	}
	return s.Enable()
}
