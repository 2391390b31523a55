package stave

import (
	"regexp"
	"strings"

	"go-sounddeck/notes"
)

// QuarterBeat is the length of an undotted token and the scheduler's tick
const QuarterBeat = 0.25

// DefaultOctave is the octave in effect before any token sets one
const DefaultOctave = 4

// Rest is the notation symbol for silence
const Rest = "-"

var notePattern = regexp.MustCompile(`[A-G-][b#]?([0-8]|[v^]+)?\.*`)

// Parse reads compact note notation into timed notes.
//
// Each token is a letter A-G (or '-' for a rest), an optional '#' or 'b', an
// optional octave digit 0-8 or a run of '^' (up one octave) / 'v' (down one),
// then any number of '.' each adding a quarter beat to the base quarter beat.
// The octave carries over from token to token. Everything that is not part of
// a token (spaces, bar lines) is skipped. Invalid pitches become rests.
func Parse(text string) []Note {
	tokens := notePattern.FindAllString(text, -1)
	out := make([]Note, 0, len(tokens))

	octave := DefaultOctave
	atBeat := 0.0
	for _, tok := range tokens {
		symbol, rest := splitSymbol(tok)

		switch {
		case rest != "" && rest[0] >= '0' && rest[0] <= '8':
			octave = int(rest[0] - '0')
			rest = rest[1:]
		case rest != "" && (rest[0] == '^' || rest[0] == 'v'):
			shift := rest
			rest = strings.TrimLeft(rest, "^v")
			shift = shift[:len(shift)-len(rest)]
			octave += strings.Count(shift, "^") - strings.Count(shift, "v")
		}

		dots := strings.Count(rest, ".")
		beats := float64(1+dots) * QuarterBeat

		n := Note{Beats: beats, AtBeat: atBeat}
		if symbol != Rest {
			if p, ok := notes.New(notes.Note(symbol), octave); ok {
				n.Pitch = &p
			}
		}
		out = append(out, n)
		atBeat += beats
	}
	return out
}

// splitSymbol separates the note or rest symbol (with accidental) from the
// octave and duration marks
func splitSymbol(tok string) (symbol, rest string) {
	if len(tok) > 1 && (tok[1] == 'b' || tok[1] == '#') {
		return tok[:2], tok[2:]
	}
	return tok[:1], tok[1:]
}
