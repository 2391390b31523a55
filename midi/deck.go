package midi

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-sounddeck/debug"
	"go-sounddeck/deck"
	"go-sounddeck/notes"
)

// ErrPortNotFound is returned when no MIDI port matches the requested name
var ErrPortNotFound = errors.New("midi port not found")

// Sender writes one message to an output port (what gomidi.SendTo returns)
type Sender func(msg gomidi.Message) error

// Deck plays tones as notes on a melodic channel and noises as drum hits on
// the percussion channel. Waveforms and play patterns have no MIDI
// equivalent and are ignored; the synth on the other end decides the timbre.
type Deck struct {
	*deck.Gate

	send    Sender
	channel uint8 // zero-based
	kit     DrumKit
	closer  func() error

	mu     sync.Mutex
	active map[*noteControl]struct{}
}

// NewDeck builds a deck around send. channel is 1-16 as printed on gear;
// out-of-range values fall back to 1.
func NewDeck(send Sender, channel int, kitName string) *Deck {
	if channel < 1 || channel > 16 {
		channel = 1
	}
	return &Deck{
		Gate:    deck.NewGate(1),
		send:    send,
		channel: uint8(channel - 1),
		kit:     GetKit(kitName),
		active:  make(map[*noteControl]struct{}),
	}
}

// OpenDeck opens the output port named portName (first port when empty)
func OpenDeck(portName string, channel int, kitName string) (*Deck, error) {
	out, err := findOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", out.String(), err)
	}

	d := NewDeck(send, channel, kitName)
	d.closer = out.Close
	debug.Log("midi", "opened output %q channel=%d kit=%s", out.String(), channel, d.kit.Name)
	return d, nil
}

// Kit returns the drum kit noises are mapped to
func (d *Deck) Kit() DrumKit { return d.kit }

func (d *Deck) PlayTone(cfg deck.ToneConfig) deck.Control {
	cfg = cfg.WithDefaults()
	note := notes.Nearest(cfg.Frequency).MIDI()
	return d.play(d.channel, note, cfg.Volume, cfg.Duration, cfg.Loop)
}

func (d *Deck) PlayNoise(cfg deck.NoiseConfig) deck.Control {
	cfg = cfg.WithDefaults()
	note := d.kit.Notes[SlotForFrequency(cfg.Frequency)]
	return d.play(DrumChannel, note, cfg.Volume, cfg.Duration, cfg.Loop)
}

func (d *Deck) play(channel, note uint8, volume, seconds float64, loop bool) deck.Control {
	level, ok := d.Level()
	if !ok {
		return nil
	}
	vel := velocity(volume * level)
	if vel == 0 {
		// NoteOn with velocity 0 means NoteOff on the wire; stay silent instead
		return deck.Silence(time.Duration(seconds * float64(time.Second)))
	}

	on := Event{Type: NoteOn, Channel: channel, Note: note, Velocity: vel}
	if err := d.send(on.Message()); err != nil {
		debug.Log("midi", "send note on %d: %v", note, err)
		return nil
	}

	c := &noteControl{
		done: make(chan struct{}),
		off:  Event{Type: NoteOff, Channel: channel, Note: note},
		deck: d,
	}
	d.mu.Lock()
	d.active[c] = struct{}{}
	d.mu.Unlock()

	// a looping sound holds until stopped
	if !loop {
		c.timer = time.AfterFunc(time.Duration(seconds*float64(time.Second)), c.Stop)
	}
	return c
}

// Close releases every held note and closes the port
func (d *Deck) Close() error {
	d.mu.Lock()
	held := make([]*noteControl, 0, len(d.active))
	for c := range d.active {
		held = append(held, c)
	}
	d.mu.Unlock()

	for _, c := range held {
		c.Stop()
	}
	if d.closer != nil {
		return d.closer()
	}
	return nil
}

// velocity maps a 0..1 volume to 0..127
func velocity(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	n := math.Round(v * 127)
	if n < 1 {
		n = 1
	}
	if n > 127 {
		n = 127
	}
	return uint8(n)
}

// noteControl sends the note off once, at the end of the duration or on Stop
type noteControl struct {
	done  chan struct{}
	once  sync.Once
	timer *time.Timer
	off   Event
	deck  *Deck
}

func (c *noteControl) Done() <-chan struct{} {
	return c.done
}

func (c *noteControl) Stop() {
	c.once.Do(func() {
		if c.timer != nil {
			c.timer.Stop()
		}
		if err := c.deck.send(c.off.Message()); err != nil {
			debug.Log("midi", "send note off %d: %v", c.off.Note, err)
		}
		c.deck.mu.Lock()
		delete(c.deck.active, c)
		c.deck.mu.Unlock()
		close(c.done)
	})
}
