// Package score reads multi-stave pieces from YAML files.
package score

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go-sounddeck/deck"
	"go-sounddeck/presets"
	"go-sounddeck/stave"
)

var (
	// ErrUnknownInstrument is returned for a preset name that does not exist
	ErrUnknownInstrument = errors.New("unknown instrument")
	// ErrBadSound is returned for an inline instrument with an unknown sound type
	ErrBadSound = errors.New("sound must be tone or noise")
	// ErrNoNotes is returned for a stave without notation
	ErrNoNotes = errors.New("stave has no notes")
)

// Score is a piece: staves played together at one tempo
type Score struct {
	Title string      `yaml:"title"`
	Tempo float64     `yaml:"tempo,omitempty"`
	Loop  bool        `yaml:"loop,omitempty"`
	// Parts as written; Staves builds the playable form
	Parts []StaveSpec `yaml:"staves"`
}

// StaveSpec is one stave as written in the file
type StaveSpec struct {
	Instrument InstrumentRef `yaml:"instrument"`
	Volume     *float64      `yaml:"volume,omitempty"`
	Transpose  int           `yaml:"transpose,omitempty"`
	Notes      string        `yaml:"notes"`
}

// InstrumentRef is either a preset name or an inline instrument block
type InstrumentRef struct {
	Name   string
	Inline *InlineInstrument
}

// InlineInstrument describes an instrument in place
type InlineInstrument struct {
	Sound      string           `yaml:"sound"` // tone | noise
	Waveform   deck.Waveform    `yaml:"waveform,omitempty"`
	CustomWave string           `yaml:"custom_wave,omitempty"`
	Pattern    deck.PlayPattern `yaml:"pattern,omitempty"`
	Loop       bool             `yaml:"loop,omitempty"`
	Volume     *float64         `yaml:"volume,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler for InstrumentRef.
func (r *InstrumentRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&r.Name)
	}

	var inline InlineInstrument
	if err := value.Decode(&inline); err != nil {
		return err
	}
	r.Inline = &inline
	return nil
}

// MarshalYAML implements yaml.Marshaler for InstrumentRef.
func (r InstrumentRef) MarshalYAML() (any, error) {
	if r.Inline != nil {
		return r.Inline, nil
	}
	return r.Name, nil
}

// Resolve returns the instrument the reference names or describes
func (r InstrumentRef) Resolve() (stave.Instrument, error) {
	if r.Inline == nil {
		inst, ok := presets.Instrument(r.Name)
		if !ok {
			return nil, fmt.Errorf("%q: %w", r.Name, ErrUnknownInstrument)
		}
		return inst, nil
	}

	in := r.Inline
	switch strings.ToLower(in.Sound) {
	case "tone", "":
		if in.Waveform != "" && !deck.ValidWaveform(in.Waveform) {
			return nil, fmt.Errorf("waveform %q: %w", in.Waveform, ErrBadSound)
		}
		return stave.Tone{
			Waveform:    in.Waveform,
			CustomWave:  in.CustomWave,
			PlayPattern: in.Pattern,
			Loop:        in.Loop,
			Volume:      in.Volume,
		}, nil
	case "noise":
		return stave.Noise{
			PlayPattern: in.Pattern,
			Loop:        in.Loop,
			Volume:      in.Volume,
		}, nil
	}
	return nil, fmt.Errorf("%q: %w", in.Sound, ErrBadSound)
}

// Parse decodes a score from YAML
func Parse(data []byte) (*Score, error) {
	var s Score
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode score: %w", err)
	}
	return &s, nil
}

// Load reads and decodes a score file
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read score: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes the score back to YAML
func (s *Score) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Staves builds playable staves: instruments resolved, notes parsed and
// transposed. Notation itself is lenient; only structural problems fail.
func (s *Score) Staves() ([]*stave.Stave, error) {
	out := make([]*stave.Stave, 0, len(s.Parts))
	for i, part := range s.Parts {
		st, err := part.build()
		if err != nil {
			return nil, fmt.Errorf("stave %d: %w", i, err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (part StaveSpec) build() (*stave.Stave, error) {
	inst, err := part.Instrument.Resolve()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(part.Notes) == "" {
		return nil, ErrNoNotes
	}

	var opts []stave.Option
	if part.Volume != nil {
		opts = append(opts, stave.WithVolume(*part.Volume))
	}
	st := stave.New(inst, stave.Parse(part.Notes), opts...)
	if part.Transpose != 0 {
		st = st.Transpose(part.Transpose)
	}
	return st, nil
}

// TempoOr returns the score's tempo, or fallback when it sets none
func (s *Score) TempoOr(fallback float64) float64 {
	if s.Tempo > 0 {
		return s.Tempo
	}
	return fallback
}
