package midi

import (
	"context"
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-sounddeck/debug"
	"go-sounddeck/deck"
	"go-sounddeck/notes"
	"go-sounddeck/stave"
)

// Keyboard handles a standard MIDI keyboard (input only)
type Keyboard struct {
	id       string
	stopFunc func()
	noteChan chan NoteEvent
	once     sync.Once
}

// OpenKeyboard listens on the input port named portName (first port when empty)
func OpenKeyboard(portName string) (*Keyboard, error) {
	in, err := findInPort(portName)
	if err != nil {
		return nil, err
	}
	return NewKeyboard(in.String(), in)
}

// NewKeyboard starts listening on inPort; a nil port yields a keyboard that
// never emits
func NewKeyboard(id string, inPort drivers.In) (*Keyboard, error) {
	kb := &Keyboard{
		id:       id,
		noteChan: make(chan NoteEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			kb.handle(msg)
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *Keyboard) handle(msg gomidi.Message) {
	var channel, note, velocity uint8
	var ev NoteEvent
	switch {
	case msg.GetNoteStart(&channel, &note, &velocity):
		ev = NoteEvent{Note: note, Velocity: velocity, Channel: channel, On: true}
	case msg.GetNoteEnd(&channel, &note):
		ev = NoteEvent{Note: note, Channel: channel}
	default:
		return
	}
	select {
	case kb.noteChan <- ev:
	default:
		debug.Log("midi", "keyboard %s: dropped note %d", kb.id, note)
	}
}

func (kb *Keyboard) ID() string {
	return kb.id
}

func (kb *Keyboard) NoteEvents() <-chan NoteEvent {
	return kb.noteChan
}

// Play sounds every key pressed on the keyboard through d with inst until ctx
// is done. Keys held down keep sounding until released.
func (kb *Keyboard) Play(ctx context.Context, d deck.Deck, inst stave.Instrument, onNote func(NoteEvent)) {
	held := make(map[uint8]deck.Control)
	defer func() {
		for _, c := range held {
			c.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-kb.noteChan:
			if !ok {
				return
			}
			if onNote != nil {
				onNote(ev)
			}
			if prev, ok := held[ev.Note]; ok {
				prev.Stop()
				delete(held, ev.Note)
			}
			if !ev.On {
				continue
			}
			if c := sustain(d, inst, ev); c != nil {
				held[ev.Note] = c
			}
		}
	}
}

// sustain starts a looping sound for a pressed key
func sustain(d deck.Deck, inst stave.Instrument, ev NoteEvent) deck.Control {
	p := notes.FromMIDI(ev.Note)
	vol := inst.Gain() * float64(ev.Velocity) / 127
	const held = 1.0 // seconds per pattern cycle

	switch in := inst.(type) {
	case stave.Tone:
		cfg := in.Config(p.Frequency(), held, vol)
		cfg.Loop = true
		return d.PlayTone(cfg)
	case stave.Noise:
		cfg := in.Config(p.Frequency(), held, vol)
		cfg.Loop = true
		return d.PlayNoise(cfg)
	}
	return nil
}

func (kb *Keyboard) Close() error {
	kb.once.Do(func() {
		if kb.stopFunc != nil {
			kb.stopFunc()
		}
		close(kb.noteChan)
	})
	return nil
}
