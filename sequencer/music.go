package sequencer

import (
	"context"
	"math"
	"sync"
	"time"

	"go-sounddeck/debug"
	"go-sounddeck/deck"
	"go-sounddeck/stave"
)

// volumeEpsilon snaps a fading volume to zero so float drift cannot leave one
// extra near-silent tick
const volumeEpsilon = 1e-9

// MusicControl is the handle to one playback session
type MusicControl struct {
	id       string
	deck     deck.Deck
	staves   []*stave.Stave
	duration float64
	loop     bool

	mu              sync.Mutex
	state           playState
	beatListeners   []func(float64)
	finishListeners []func()

	wake     chan struct{} // closed by Stop to cut the current sleep short
	wakeOnce sync.Once

	done      chan struct{}
	doneOnce  sync.Once
	succeeded bool
}

// ID identifies the session in logs
func (mc *MusicControl) ID() string { return mc.id }

// Duration is the music length in beats (the longest stave)
func (mc *MusicControl) Duration() float64 { return mc.duration }

// Loop reports whether the music restarts from beat 0 at the end
func (mc *MusicControl) Loop() bool { return mc.loop }

// Done is closed when the session has ended, by finishing or by Stop
func (mc *MusicControl) Done() <-chan struct{} { return mc.done }

// Succeeded reports how the session ended: true when the music or a fade ran
// to completion, false when it was stopped. Only meaningful after Done.
func (mc *MusicControl) Succeeded() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.succeeded
}

// Wait blocks until the session ends or ctx is done
func (mc *MusicControl) Wait(ctx context.Context) (bool, error) {
	select {
	case <-mc.done:
		return mc.Succeeded(), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Stop ends the session. Notes already sent to the deck keep sounding.
// Calling Stop more than once, or after the music finished, does nothing.
func (mc *MusicControl) Stop() {
	mc.mu.Lock()
	if mc.state.aborted {
		mc.mu.Unlock()
		return
	}
	mc.state.aborted = true
	mc.mu.Unlock()

	debug.Log("music", "session %s stopped", mc.id)
	mc.wakeOnce.Do(func() { close(mc.wake) })
	mc.complete(false)
}

// Pause halts the clock after the current tick and returns the beat it is on
func (mc *MusicControl) Pause() float64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.state.paused = true
	return mc.state.currentBeat
}

// Resume continues a paused session from where it stopped. It does nothing
// unless the session is paused, and never starts a second tick loop.
func (mc *MusicControl) Resume() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.state.paused || mc.state.aborted {
		return
	}
	mc.state.paused = false
	if mc.state.running {
		// the loop is still sleeping and will carry on by itself
		return
	}
	mc.state.running = true
	go mc.run()
}

// FadeOut lowers the volume linearly to zero over roughly seconds (at least
// MinFadeSeconds), then ends the session successfully. The step size is
// computed from the tempo at the time of the call.
func (mc *MusicControl) FadeOut(seconds float64) {
	if !(seconds >= MinFadeSeconds) {
		seconds = MinFadeSeconds
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	ticks := math.Ceil(seconds / quarterBeatSeconds(mc.state.tempo))
	mc.state.fadeRate = 1 / ticks
	debug.Log("music", "session %s fading over %.0f ticks", mc.id, ticks)
}

// SetTempo changes the speed from the next tick on, floored at MinTempo
func (mc *MusicControl) SetTempo(tempo float64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.state.tempo = clampTempo(tempo)
}

func (mc *MusicControl) Tempo() float64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.state.tempo
}

func (mc *MusicControl) CurrentBeat() float64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.state.currentBeat
}

func (mc *MusicControl) IsPaused() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.state.paused
}

func (mc *MusicControl) IsFading() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.state.fadeRate > 0
}

// Volume is the fade multiplier, 1 unless fading
func (mc *MusicControl) Volume() float64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.state.volume
}

// OnBeat registers fn to be called on every whole beat
func (mc *MusicControl) OnBeat(fn func(beat float64)) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.beatListeners = append(mc.beatListeners, fn)
}

// OnFinish registers fn to be called when the music or a fade completes.
// It is not called on Stop.
func (mc *MusicControl) OnFinish(fn func()) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.finishListeners = append(mc.finishListeners, fn)
}

func (mc *MusicControl) complete(success bool) {
	mc.doneOnce.Do(func() {
		mc.mu.Lock()
		mc.succeeded = success
		mc.mu.Unlock()
		close(mc.done)
	})
}

// run is the tick loop. Exactly one run goroutine is alive while
// state.running is set.
func (mc *MusicControl) run() {
	s := &mc.state
	for {
		mc.mu.Lock()
		if s.paused || s.aborted {
			s.running = false
			mc.mu.Unlock()
			return
		}
		beat := s.currentBeat
		mc.mu.Unlock()

		if isWholeBeat(beat) {
			mc.emitBeat(beat)
		}

		mc.mu.Lock()
		if s.volume <= 0 {
			s.running = false
			mc.mu.Unlock()
			debug.Log("music", "session %s faded out", mc.id)
			mc.finish()
			return
		}
		if beat >= mc.duration {
			if mc.loop && mc.duration > 0 {
				s.currentBeat = 0
				mc.mu.Unlock()
				continue
			}
			s.running = false
			mc.mu.Unlock()
			debug.Log("music", "session %s reached beat %.2f", mc.id, beat)
			mc.finish()
			return
		}
		tempo, volume := s.tempo, s.volume
		mc.mu.Unlock()

		mc.dispatch(beat, tempo, volume)

		mc.mu.Lock()
		if s.fadeRate > 0 {
			s.volume -= s.fadeRate
			if s.volume < volumeEpsilon {
				s.volume = 0
			}
		}
		wait := time.Duration(quarterBeatSeconds(s.tempo) * float64(time.Second))
		mc.mu.Unlock()

		mc.sleep(wait)

		mc.mu.Lock()
		s.currentBeat = beat + stave.QuarterBeat
		mc.mu.Unlock()
	}
}

// dispatch sends every note starting on beat to the deck
func (mc *MusicControl) dispatch(beat, tempo, volume float64) {
	for _, st := range mc.staves {
		n, ok := st.At(beat)
		if !ok || n.IsRest() {
			continue
		}
		inst := st.Instrument()
		seconds := n.Beats / tempo
		vol := st.Volume() * inst.Gain() * volume
		if ctrl := playNote(mc.deck, inst, n.Pitch.Frequency(), seconds, vol); ctrl == nil {
			debug.LogEvery(16, "music", "deck declined %s", n.Pitch)
		}
	}
	debug.LogEvery(64, "music", "tick")
}

func (mc *MusicControl) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-mc.wake:
	}
}

func (mc *MusicControl) emitBeat(beat float64) {
	mc.mu.Lock()
	listeners := append([]func(float64){}, mc.beatListeners...)
	mc.mu.Unlock()

	for _, fn := range listeners {
		safeCall(func() { fn(beat) })
	}
}

// finish notifies finish listeners and resolves the session as a success,
// unless Stop got there first
func (mc *MusicControl) finish() {
	mc.mu.Lock()
	aborted := mc.state.aborted
	listeners := append([]func(){}, mc.finishListeners...)
	mc.mu.Unlock()

	if aborted {
		return
	}
	for _, fn := range listeners {
		safeCall(fn)
	}
	mc.complete(true)
}

// safeCall runs a listener so that a panic in it cannot kill the clock
func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log("music", "listener panic: %v", r)
		}
	}()
	fn()
}
