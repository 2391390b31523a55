// Package notes models musical pitch: note names, octaves, equal-tempered
// frequencies, transposition and simple triads.
package notes

import (
	"fmt"
	"math"
)

// Note is a pitch class name: a letter A-G with an optional '#' or 'b'
type Note string

// Octave is a scientific pitch octave number (C4 = middle C)
type Octave int

const (
	MinOctave Octave = 0
	MaxOctave Octave = 8
)

// Reference tuning: A4 = 440 Hz
const (
	ReferenceFrequency = 440.0
	referenceSemitone  = 4*12 + 9
)

// offsets from C within one octave
var noteOffsets = map[Note]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

// chromatic spelling used when a pitch is derived from a semitone index
var chromatic = [12]Note{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// IsNote reports whether s names a pitch class
func IsNote(s string) bool {
	_, ok := noteOffsets[Note(s)]
	return ok
}

// IsOctave reports whether n is a supported octave
func IsOctave(n int) bool {
	return n >= int(MinOctave) && n <= int(MaxOctave)
}

// Pitch is an immutable note + octave pair
type Pitch struct {
	Note   Note
	Octave Octave
}

// New returns the pitch, or false if the note or octave is not valid
func New(note Note, octave int) (Pitch, bool) {
	if !IsNote(string(note)) || !IsOctave(octave) {
		return Pitch{}, false
	}
	return Pitch{Note: note, Octave: Octave(octave)}, true
}

// MustNew is New for literals known to be valid
func MustNew(note Note, octave int) Pitch {
	p, ok := New(note, octave)
	if !ok {
		panic(fmt.Sprintf("notes: invalid pitch %s%d", note, octave))
	}
	return p
}

// Valid reports whether the pitch passes both validity predicates
func (p Pitch) Valid() bool {
	return IsNote(string(p.Note)) && IsOctave(int(p.Octave))
}

// Semitone returns the absolute semitone index (C0 = 0)
func (p Pitch) Semitone() int {
	return int(p.Octave)*12 + noteOffsets[p.Note]
}

// Frequency in Hz, 12-TET relative to A4
func (p Pitch) Frequency() float64 {
	return ReferenceFrequency * math.Pow(2, float64(p.Semitone()-referenceSemitone)/12)
}

// Name formats the pitch as {letter}{accidental}{octave}, e.g. "Bb3"
func (p Pitch) Name() string {
	return fmt.Sprintf("%s%d", p.Note, p.Octave)
}

func (p Pitch) String() string {
	return p.Name()
}

// Transpose shifts the pitch by a number of semitones. Naturals keep their
// letter, accidentals are respelled from the chromatic scale.
func (p Pitch) Transpose(semitones int) Pitch {
	return fromSemitone(p.Semitone() + semitones)
}

// MajorTriad returns root, major third and fifth
func (p Pitch) MajorTriad() [3]Pitch {
	return [3]Pitch{p, p.Transpose(4), p.Transpose(7)}
}

// MinorTriad returns root, minor third and fifth
func (p Pitch) MinorTriad() [3]Pitch {
	return [3]Pitch{p, p.Transpose(3), p.Transpose(7)}
}

// MIDI returns the MIDI note number (C4 = 60), clamped to 0-127
func (p Pitch) MIDI() uint8 {
	n := p.Semitone() + 12
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

// FromMIDI converts a MIDI note number to a pitch. Notes below C0 or above
// B8 produce a pitch that is not Valid.
func FromMIDI(n uint8) Pitch {
	return fromSemitone(int(n) - 12)
}

// Nearest returns the pitch closest to freq
func Nearest(freq float64) Pitch {
	if freq <= 0 {
		return fromSemitone(0)
	}
	semi := int(math.Round(float64(referenceSemitone) + 12*math.Log2(freq/ReferenceFrequency)))
	return fromSemitone(semi)
}

func fromSemitone(semi int) Pitch {
	// floor division so negative indexes roll into lower octaves
	octave := semi / 12
	idx := semi % 12
	if idx < 0 {
		idx += 12
		octave--
	}
	return Pitch{Note: chromatic[idx], Octave: Octave(octave)}
}
