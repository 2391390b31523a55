package deck

import (
	"sync"
	"time"
)

// CallKind identifies which deck method was invoked
type CallKind string

const (
	CallTone  CallKind = "tone"
	CallNoise CallKind = "noise"
)

// Call is one recorded play request
type Call struct {
	Kind       CallKind
	Frequency  float64
	Duration   float64
	Volume     float64
	Waveform   Waveform
	CustomWave string
	At         time.Time
}

// Recorder is a Deck that produces no sound. It records every request and
// hands back controls that end after the requested duration. It backs the
// --dry-run output mode and the sequencer tests.
type Recorder struct {
	// Declining makes every play call return nil
	Declining bool
	// Instant makes controls finish immediately instead of after Duration
	Instant bool
	// OnCall, if set, is invoked for every accepted call
	OnCall func(Call)

	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) PlayTone(cfg ToneConfig) Control {
	return r.record(Call{
		Kind:       CallTone,
		Frequency:  cfg.Frequency,
		Duration:   cfg.Duration,
		Volume:     cfg.Volume,
		Waveform:   cfg.Waveform,
		CustomWave: cfg.CustomWave,
	})
}

func (r *Recorder) PlayNoise(cfg NoiseConfig) Control {
	return r.record(Call{
		Kind:      CallNoise,
		Frequency: cfg.Frequency,
		Duration:  cfg.Duration,
		Volume:    cfg.Volume,
	})
}

func (r *Recorder) record(c Call) Control {
	r.mu.Lock()
	if r.Declining {
		r.mu.Unlock()
		return nil
	}
	c.At = time.Now()
	r.calls = append(r.calls, c)
	hook := r.OnCall
	instant := r.Instant
	r.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	if instant {
		return newTimedControl(0)
	}
	return newTimedControl(time.Duration(c.Duration * float64(time.Second)))
}

// Calls returns a copy of everything recorded so far
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset forgets recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// SetDeclining switches the recorder between accepting and declining calls
func (r *Recorder) SetDeclining(v bool) {
	r.mu.Lock()
	r.Declining = v
	r.mu.Unlock()
}

// timedControl ends after a fixed duration or when stopped
type timedControl struct {
	done  chan struct{}
	once  sync.Once
	timer *time.Timer
}

func newTimedControl(d time.Duration) *timedControl {
	c := &timedControl{done: make(chan struct{})}
	if d <= 0 {
		c.finish()
		return c
	}
	c.timer = time.AfterFunc(d, c.finish)
	return c
}

func (c *timedControl) finish() {
	c.once.Do(func() { close(c.done) })
}

func (c *timedControl) Done() <-chan struct{} {
	return c.done
}

func (c *timedControl) Stop() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.finish()
}

// Silence is a Control for a rest: it produces nothing and ends after d
func Silence(d time.Duration) Control {
	return newTimedControl(d)
}
