package stave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sounddeck/deck"
	"go-sounddeck/notes"
)

func TestStaveDuration(t *testing.T) {
	s := New(Tone{}, Parse("C C. C.. C..."))
	assert.Equal(t, 2.5, s.Duration())

	empty := New(Noise{}, nil)
	assert.Equal(t, 0.0, empty.Duration())
}

func TestStaveIndex(t *testing.T) {
	s := New(Tone{}, Parse("C-E."))

	n, ok := s.At(0)
	require.True(t, ok)
	assert.Equal(t, "C4", n.Pitch.Name())

	n, ok = s.At(0.25)
	require.True(t, ok)
	assert.True(t, n.IsRest())

	n, ok = s.At(0.5)
	require.True(t, ok)
	assert.Equal(t, 0.5, n.Beats)

	_, ok = s.At(0.75)
	assert.False(t, ok, "inside a held note")
}

func TestStaveIndexCollisionLastWriteWins(t *testing.T) {
	c := notes.MustNew("C", 4)
	g := notes.MustNew("G", 4)
	s := New(Tone{}, []Note{
		{Pitch: &c, Beats: 0.25, AtBeat: 0},
		{Pitch: &g, Beats: 0.25, AtBeat: 0},
	})

	n, ok := s.At(0)
	require.True(t, ok)
	assert.Equal(t, "G4", n.Pitch.Name())
	assert.Len(t, s.Notes(), 2)
}

func TestStaveTranspose(t *testing.T) {
	inst := Tone{Waveform: deck.Triangle}
	melody := New(inst, Parse("C-E"), WithVolume(0.25))

	bass := melody.Transpose(-12)

	assert.Equal(t, 0.25, bass.Volume())
	assert.Equal(t, inst, bass.Instrument())
	assert.Equal(t, melody.Duration(), bass.Duration())

	got := bass.Notes()
	require.Len(t, got, 3)
	assert.Equal(t, "C3", got[0].Pitch.Name())
	assert.True(t, got[1].IsRest())
	assert.Equal(t, "E3", got[2].Pitch.Name())

	// the source stave is untouched
	assert.Equal(t, "C4", melody.Notes()[0].Pitch.Name())
}

func TestInstrumentGain(t *testing.T) {
	assert.Equal(t, 1.0, Tone{}.Gain())
	assert.Equal(t, 0.5, Noise{Volume: Vol(0.5)}.Gain())
	assert.Equal(t, 0.0, Tone{Volume: Vol(0)}.Gain())

	var inst Instrument = Noise{}
	assert.Equal(t, SoundNoise, inst.SoundType())
	assert.Equal(t, "tone", SoundTone.String())
}

func TestInstrumentConfig(t *testing.T) {
	pattern := deck.PlayPattern{{Time: 0, Vol: 1}}
	cfg := Tone{Waveform: deck.Square, CustomWave: "organ", PlayPattern: pattern}.Config(440, 0.5, 0.3)

	assert.Equal(t, 440.0, cfg.Frequency)
	assert.Equal(t, 440.0, cfg.EndFrequency)
	assert.Equal(t, 0.5, cfg.Duration)
	assert.Equal(t, 0.3, cfg.Volume)
	assert.Equal(t, deck.Square, cfg.Waveform)
	assert.Equal(t, "organ", cfg.CustomWave)
	assert.Equal(t, pattern, cfg.PlayPattern)
}
