package stave

import "go-sounddeck/deck"

// SoundType tags which kind of sound an instrument makes
type SoundType int

const (
	SoundTone SoundType = iota
	SoundNoise
)

func (s SoundType) String() string {
	switch s {
	case SoundTone:
		return "tone"
	case SoundNoise:
		return "noise"
	}
	return "unknown"
}

// Instrument is how a stave's notes are rendered. It is either a Tone or a
// Noise; callers switch on the concrete type.
type Instrument interface {
	SoundType() SoundType
	// Gain is the instrument's own base volume (1 when unset)
	Gain() float64

	instrument()
}

// Tone renders notes with an oscillator
type Tone struct {
	Waveform    deck.Waveform
	CustomWave  string
	PlayPattern deck.PlayPattern
	Loop        bool
	Volume      *float64
}

func (Tone) SoundType() SoundType { return SoundTone }
func (t Tone) Gain() float64      { return gain(t.Volume) }
func (Tone) instrument()          {}

// Config builds the deck request for one note
func (t Tone) Config(freq, seconds, volume float64) deck.ToneConfig {
	return deck.ToneConfig{
		NoiseConfig: deck.NoiseConfig{
			PlayOptions: deck.PlayOptions{
				Volume:      volume,
				Loop:        t.Loop,
				PlayPattern: t.PlayPattern,
			},
			Duration:     seconds,
			Frequency:    freq,
			EndFrequency: freq,
		},
		Waveform:   t.Waveform,
		CustomWave: t.CustomWave,
	}
}

// Noise renders notes as band-passed noise centred on the note's frequency
type Noise struct {
	PlayPattern deck.PlayPattern
	Loop        bool
	Volume      *float64
}

func (Noise) SoundType() SoundType { return SoundNoise }
func (n Noise) Gain() float64      { return gain(n.Volume) }
func (Noise) instrument()          {}

// Config builds the deck request for one note
func (n Noise) Config(freq, seconds, volume float64) deck.NoiseConfig {
	return deck.NoiseConfig{
		PlayOptions: deck.PlayOptions{
			Volume:      volume,
			Loop:        n.Loop,
			PlayPattern: n.PlayPattern,
		},
		Duration:     seconds,
		Frequency:    freq,
		EndFrequency: freq,
	}
}

// Vol is a helper for the optional Volume fields
func Vol(v float64) *float64 {
	return &v
}

func gain(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}
