// Package sequencer plays staves against a shared beat clock.
//
// A MusicControl runs one tick loop per session. The loop advances in quarter
// beats; each tick it notifies beat listeners on whole beats, checks for the
// end of the music (or of a fade), asks the deck to play every note starting
// on the current beat, applies the fade, and then sleeps for a quarter beat at
// the current tempo. That sleep is the only place the loop waits, so pause and
// stop are noticed at the start of the following tick.
package sequencer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-sounddeck/debug"
	"go-sounddeck/deck"
	"go-sounddeck/stave"
)

// Player schedules music on a deck
type Player struct {
	deck deck.Deck
}

// New creates a player that sends notes to d
func New(d deck.Deck) *Player {
	return &Player{deck: d}
}

// PlayOption configures a session before its first tick
type PlayOption func(*MusicControl)

// WithBeatListener registers fn before playback starts, so it also sees beat 0
func WithBeatListener(fn func(beat float64)) PlayOption {
	return func(mc *MusicControl) { mc.beatListeners = append(mc.beatListeners, fn) }
}

// WithFinishListener registers fn before playback starts
func WithFinishListener(fn func()) PlayOption {
	return func(mc *MusicControl) { mc.finishListeners = append(mc.finishListeners, fn) }
}

// PlayMusic starts playing staves together and returns the session handle.
// The music lasts as long as the longest stave; with no notes at all it ends
// straight away, even when looping.
func (p *Player) PlayMusic(staves []*stave.Stave, tempo float64, loop bool, opts ...PlayOption) *MusicControl {
	mc := &MusicControl{
		id:    uuid.NewString(),
		deck:  p.deck,
		loop:  loop,
		state: newPlayState(tempo),
		wake:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, s := range staves {
		if s == nil {
			continue
		}
		mc.staves = append(mc.staves, s)
		if d := s.Duration(); d > mc.duration {
			mc.duration = d
		}
	}
	for _, opt := range opts {
		opt(mc)
	}

	debug.Log("music", "session %s: %d staves, %.2f beats, tempo=%.2f loop=%v",
		mc.id, len(mc.staves), mc.duration, mc.state.tempo, loop)

	mc.state.running = true
	go mc.run()
	return mc
}

// PlayStave plays one instrument's notes back to back, waiting for each sound
// to end before starting the next. It returns false if the deck declines a
// note or ctx is cancelled, true once the last note has ended.
func (p *Player) PlayStave(ctx context.Context, inst stave.Instrument, notes []stave.Note, tempo, volume float64) bool {
	tempo = clampTempo(tempo)

	for i, n := range notes {
		seconds := n.Beats / tempo

		var ctrl deck.Control
		if n.IsRest() {
			ctrl = deck.Silence(time.Duration(seconds * float64(time.Second)))
		} else {
			ctrl = playNote(p.deck, inst, n.Pitch.Frequency(), seconds, inst.Gain()*volume)
		}
		if ctrl == nil {
			debug.Log("music", "stave note %d declined by deck", i)
			return false
		}

		select {
		case <-ctrl.Done():
		case <-ctx.Done():
			ctrl.Stop()
			return false
		}
	}
	return true
}

// playNote asks the deck for the sound matching the instrument's kind
func playNote(d deck.Deck, inst stave.Instrument, freq, seconds, volume float64) deck.Control {
	switch in := inst.(type) {
	case stave.Tone:
		return d.PlayTone(in.Config(freq, seconds, volume))
	case *stave.Tone:
		return d.PlayTone(in.Config(freq, seconds, volume))
	case stave.Noise:
		return d.PlayNoise(in.Config(freq, seconds, volume))
	case *stave.Noise:
		return d.PlayNoise(in.Config(freq, seconds, volume))
	}
	return nil
}
