// Package stave holds one instrument's timed sequence of notes and the
// notation parser that produces them.
package stave

import "go-sounddeck/notes"

// Note is one slot on a stave's timeline. A nil Pitch is a rest.
type Note struct {
	Pitch  *notes.Pitch
	Beats  float64
	AtBeat float64 // offset from the start of the stave
}

// IsRest reports whether the note is silent
func (n Note) IsRest() bool {
	return n.Pitch == nil
}

// Stave is an instrument with an ordered list of notes, indexed by start beat
type Stave struct {
	instrument Instrument
	notes      []Note
	volume     float64
	index      map[float64]Note
}

// Option configures a Stave
type Option func(*Stave)

// WithVolume sets the stave's volume (default 1)
func WithVolume(v float64) Option {
	return func(s *Stave) { s.volume = v }
}

// New builds a stave. Notes are expected in parse order (AtBeat non-decreasing).
//
// The index keeps one note per start beat: if two notes share an AtBeat the
// later one in the slice wins.
func New(inst Instrument, ns []Note, opts ...Option) *Stave {
	s := &Stave{
		instrument: inst,
		notes:      ns,
		volume:     1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.index = indexNotes(ns)
	return s
}

func indexNotes(ns []Note) map[float64]Note {
	m := make(map[float64]Note, len(ns))
	for _, n := range ns {
		m[n.AtBeat] = n
	}
	return m
}

func (s *Stave) Instrument() Instrument { return s.instrument }
func (s *Stave) Volume() float64        { return s.volume }

// Notes returns the stave's notes in order
func (s *Stave) Notes() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Duration is the last note's end beat, 0 for an empty stave
func (s *Stave) Duration() float64 {
	if len(s.notes) == 0 {
		return 0
	}
	last := s.notes[len(s.notes)-1]
	return last.AtBeat + last.Beats
}

// At returns the note starting exactly at beat
func (s *Stave) At(beat float64) (Note, bool) {
	n, ok := s.index[beat]
	return n, ok
}

// Transpose returns a new stave with every pitch shifted; instrument and
// volume are shared
func (s *Stave) Transpose(semitones int) *Stave {
	shifted := make([]Note, len(s.notes))
	for i, n := range s.notes {
		if n.Pitch != nil {
			p := n.Pitch.Transpose(semitones)
			n.Pitch = &p
		}
		shifted[i] = n
	}
	return New(s.instrument, shifted, WithVolume(s.volume))
}
