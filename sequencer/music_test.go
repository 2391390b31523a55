package sequencer

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sounddeck/deck"
	"go-sounddeck/notes"
	"go-sounddeck/stave"
)

// fastTempo gives 6.25ms ticks
const fastTempo = 40.0

func waitDone(t *testing.T, mc *MusicControl) bool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	ok, err := mc.Wait(ctx)
	require.NoError(t, err, "music did not end")
	return ok
}

func freq(name string, octave int) float64 {
	return notes.MustNew(notes.Note(name), octave).Frequency()
}

type beatLog struct {
	mu    sync.Mutex
	beats []float64
}

func (b *beatLog) add(beat float64) {
	b.mu.Lock()
	b.beats = append(b.beats, beat)
	b.mu.Unlock()
}

func (b *beatLog) get() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]float64{}, b.beats...)
}

func TestPlayMusicDispatchesNotesInOrder(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)

	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C D E"))}, fastTempo, false)
	assert.NotEmpty(t, mc.ID())
	assert.Equal(t, 0.75, mc.Duration())

	assert.True(t, waitDone(t, mc))

	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.InDelta(t, freq("C", 4), calls[0].Frequency, 1e-9)
	assert.InDelta(t, freq("D", 4), calls[1].Frequency, 1e-9)
	assert.InDelta(t, freq("E", 4), calls[2].Frequency, 1e-9)
	for _, c := range calls {
		assert.Equal(t, deck.CallTone, c.Kind)
		assert.InDelta(t, 0.25/fastTempo, c.Duration, 1e-12)
		assert.InDelta(t, 1.0, c.Volume, 1e-12)
	}
}

func TestPlayMusicMixesVolumes(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)

	tone := stave.New(stave.Tone{Volume: stave.Vol(0.5)}, stave.Parse("C"), stave.WithVolume(0.5))
	noise := stave.New(stave.Noise{}, stave.Parse("-C"), stave.WithVolume(0.8))

	mc := p.PlayMusic([]*stave.Stave{tone, nil, noise}, fastTempo, false)
	assert.True(t, waitDone(t, mc))

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, deck.CallTone, calls[0].Kind)
	assert.InDelta(t, 0.25, calls[0].Volume, 1e-12)
	assert.Equal(t, deck.CallNoise, calls[1].Kind)
	assert.InDelta(t, 0.8, calls[1].Volume, 1e-12)
}

func TestBeatListenerSeesWholeBeats(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)
	var beats beatLog
	finished := make(chan struct{}, 1)

	mc := p.PlayMusic(
		[]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C... C... C..."))},
		fastTempo, false,
		WithBeatListener(beats.add),
		WithFinishListener(func() { finished <- struct{}{} }),
	)
	assert.True(t, waitDone(t, mc))

	// the end-of-music beat is announced before the finish
	assert.Equal(t, []float64{0, 1, 2, 3}, beats.get())
	select {
	case <-finished:
	default:
		t.Fatal("finish listener not called")
	}
}

func TestEmptyMusicEndsImmediately(t *testing.T) {
	p := New(deck.NewRecorder())

	for _, loop := range []bool{false, true} {
		mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, nil)}, fastTempo, loop)
		assert.True(t, waitDone(t, mc), "loop=%v", loop)
		assert.Equal(t, 0.0, mc.Duration())
	}

	mc := p.PlayMusic(nil, fastTempo, true)
	assert.True(t, waitDone(t, mc))
}

func TestStopResolvesFalse(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)
	finished := false

	mc := p.PlayMusic(
		[]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C D E F G A B"))},
		1, false,
		WithFinishListener(func() { finished = true }),
	)
	mc.Stop()
	mc.Stop()

	assert.False(t, waitDone(t, mc))
	assert.False(t, mc.Succeeded())

	// give a stray tick a chance to run
	time.Sleep(20 * time.Millisecond)
	assert.False(t, finished)
	assert.LessOrEqual(t, len(rec.Calls()), 1)
}

func TestStopAfterFinishKeepsSuccess(t *testing.T) {
	p := New(deck.NewRecorder())
	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C"))}, fastTempo, false)
	assert.True(t, waitDone(t, mc))

	mc.Stop()
	assert.True(t, mc.Succeeded())
}

func TestLoopRestartsAtBeatZero(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)
	var beats beatLog

	mc := p.PlayMusic(
		[]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C..."))},
		fastTempo, true,
		WithBeatListener(beats.add),
	)
	require.Eventually(t, func() bool { return len(rec.Calls()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	mc.Stop()
	assert.False(t, waitDone(t, mc))

	zeros := 0
	for _, b := range beats.get() {
		if b == 0 {
			zeros++
		}
	}
	assert.GreaterOrEqual(t, zeros, 3)
	for _, c := range rec.Calls() {
		assert.InDelta(t, freq("C", 4), c.Frequency, 1e-9)
	}
}

func TestPauseResumeKeepsPosition(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)
	melody := stave.Parse("C D E F G A B C^")

	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, melody)}, fastTempo, false)
	require.Eventually(t, func() bool { return len(rec.Calls()) >= 2 }, 2*time.Second, time.Millisecond)

	beat := mc.Pause()
	assert.True(t, mc.IsPaused())
	assert.Less(t, beat, mc.Duration())

	time.Sleep(30 * time.Millisecond)
	held := len(rec.Calls())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, held, len(rec.Calls()), "no notes while paused")

	mc.Resume()
	mc.Resume()
	assert.False(t, mc.IsPaused())
	assert.True(t, waitDone(t, mc))

	calls := rec.Calls()
	require.Len(t, calls, len(melody), "no skipped or repeated notes")
	for i, n := range melody {
		assert.InDelta(t, n.Pitch.Frequency(), calls[i].Frequency, 1e-9)
	}
}

func TestResumeWithoutPauseIsNoop(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)

	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C D E F"))}, fastTempo, false)
	mc.Resume()
	mc.Resume()
	assert.True(t, waitDone(t, mc))
	assert.Len(t, rec.Calls(), 4)
}

func TestFadeOutCompletes(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)
	finished := make(chan struct{}, 1)

	mc := p.PlayMusic(
		[]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("CCCC"))},
		fastTempo, true,
		WithFinishListener(func() { finished <- struct{}{} }),
	)
	assert.False(t, mc.IsFading())
	mc.FadeOut(0) // clamped to MinFadeSeconds: 16 ticks at this tempo
	assert.True(t, mc.IsFading())

	assert.True(t, waitDone(t, mc))
	assert.Equal(t, 0.0, mc.Volume())
	<-finished

	calls := rec.Calls()
	require.NotEmpty(t, calls)
	last := calls[len(calls)-1]
	assert.Greater(t, last.Volume, 0.0)
	assert.Less(t, last.Volume, 0.2)
	for i := 1; i < len(calls); i++ {
		assert.LessOrEqual(t, calls[i].Volume, calls[i-1].Volume+1e-12)
	}
}

func TestSetTempoFloor(t *testing.T) {
	p := New(deck.NewRecorder())
	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C......."))}, 0, false)
	defer mc.Stop()

	assert.Equal(t, MinTempo, mc.Tempo())
	mc.SetTempo(6)
	assert.Equal(t, 6.0, mc.Tempo())
	mc.SetTempo(-3)
	assert.Equal(t, MinTempo, mc.Tempo())
	mc.SetTempo(math.NaN())
	assert.Equal(t, MinTempo, mc.Tempo())
}

func TestNoteDurationFollowsCurrentTempo(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)

	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C... D"))}, fastTempo, false)
	mc.SetTempo(fastTempo * 2)
	assert.True(t, waitDone(t, mc))

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.InDelta(t, 0.25/(fastTempo*2), calls[1].Duration, 1e-12)
}

func TestListenerPanicDoesNotStopClock(t *testing.T) {
	rec := deck.NewRecorder()
	p := New(rec)
	var beats beatLog

	mc := p.PlayMusic(
		[]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C... D..."))},
		fastTempo, false,
		WithBeatListener(func(float64) { panic("boom") }),
		WithBeatListener(beats.add),
	)
	mc.OnFinish(func() { panic("boom") })

	assert.True(t, waitDone(t, mc))
	assert.Equal(t, []float64{0, 1, 2}, beats.get())
	assert.Len(t, rec.Calls(), 2)
}

func TestDecliningDeckStillFinishes(t *testing.T) {
	rec := deck.NewRecorder()
	rec.SetDeclining(true)
	p := New(rec)

	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Noise{}, stave.Parse("C D"))}, fastTempo, false)
	assert.True(t, waitDone(t, mc))
	assert.Empty(t, rec.Calls())
}

func TestWaitHonoursContext(t *testing.T) {
	p := New(deck.NewRecorder())
	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C......."))}, 1, false)
	defer mc.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ok, err := mc.Wait(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMusicEndsAfterDurationOverTempo(t *testing.T) {
	const tempo = 4.0
	tick := time.Duration(quarterBeatSeconds(tempo) * float64(time.Second))

	p := New(deck.NewRecorder())
	start := time.Now()
	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("C... D..."))}, tempo, false)
	require.Equal(t, 2.0, mc.Duration())

	assert.True(t, waitDone(t, mc))
	elapsed := time.Since(start)

	want := time.Duration(mc.Duration() / tempo * float64(time.Second))
	assert.InDelta(t, float64(want), float64(elapsed), float64(tick),
		"expected about %v, took %v", want, elapsed)
	assert.GreaterOrEqual(t, mc.CurrentBeat(), mc.Duration())
}

// The fade step is fixed when FadeOut is called. Raising the tempo afterwards
// keeps the same number of fade ticks, so the fade ends sooner in wall time.
func TestFadeRateFixedAtCallTime(t *testing.T) {
	const (
		tempo   = 2.0
		seconds = 1.0 // 8 ticks of 125ms at tempo 2
	)
	rec := deck.NewRecorder()
	rec.Instant = true
	p := New(rec)

	mc := p.PlayMusic([]*stave.Stave{stave.New(stave.Tone{}, stave.Parse("CCCC"))}, tempo, true)
	start := time.Now()
	mc.FadeOut(seconds)
	mc.SetTempo(4 * tempo)

	assert.True(t, waitDone(t, mc))
	elapsed := time.Since(start)

	// 8 ticks at the new tempo plus at most one tick already sleeping at the old one
	assert.Less(t, elapsed, 600*time.Millisecond, "fade took %v", elapsed)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond, "fade took %v", elapsed)

	var faded []float64
	for _, c := range rec.Calls() {
		if c.Volume < 1-1e-9 {
			faded = append(faded, c.Volume)
		}
	}
	require.Len(t, faded, 7, "one note per fade step before silence")
	assert.InDelta(t, 0.875, faded[0], 1e-9)
	assert.InDelta(t, 0.125, faded[len(faded)-1], 1e-9)
}
