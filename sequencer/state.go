package sequencer

import "go-sounddeck/stave"

const (
	// DefaultTempo in beats per second
	DefaultTempo = 2.0
	// MinTempo keeps the clock moving forward
	MinTempo = 1.0
	// MinFadeSeconds is the shortest fade FadeOut will schedule
	MinFadeSeconds = 0.1
)

// playState is the mutable state of one playback session. It is owned by a
// single MusicControl and only touched under its mutex.
type playState struct {
	aborted bool
	paused  bool
	running bool // a tick loop goroutine is alive

	currentBeat float64
	tempo       float64
	volume      float64 // 1 down to 0 while fading
	fadeRate    float64 // volume lost per quarter beat, 0 = not fading
}

func newPlayState(tempo float64) playState {
	return playState{
		tempo:  clampTempo(tempo),
		volume: 1,
	}
}

// quarterBeatSeconds is the wall-clock length of one tick at tempo
func quarterBeatSeconds(tempo float64) float64 {
	return stave.QuarterBeat / tempo
}

func clampTempo(tempo float64) float64 {
	// written as !(>=) so NaN clamps too
	if !(tempo >= MinTempo) {
		return MinTempo
	}
	return tempo
}

func isWholeBeat(beat float64) bool {
	return beat == float64(int64(beat))
}
