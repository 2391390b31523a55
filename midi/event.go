package midi

import gomidi "gitlab.com/gomidi/midi/v2"

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// DrumChannel is channel 10 (zero-based 9), the General MIDI percussion channel
const DrumChannel uint8 = 9

// Event is one note message the deck sends
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // zero-based
	Note     uint8
	Velocity uint8
}

// Message encodes the event for the wire
func (e Event) Message() gomidi.Message {
	if e.Type == NoteOff {
		return gomidi.NoteOff(e.Channel, e.Note)
	}
	return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
}

// NoteEvent is a note played on an input keyboard
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
	On       bool
}
