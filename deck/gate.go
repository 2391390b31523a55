package deck

import "sync"

// Gate holds the on/off, mute and master volume state behind a Switch.
// Decks embed it and consult Level before producing a sound.
type Gate struct {
	mu       sync.Mutex
	disabled bool
	muted    bool
	master   float64
}

// NewGate returns an enabled, unmuted gate at master volume v
func NewGate(v float64) *Gate {
	return &Gate{master: clampUnit(v)}
}

func (g *Gate) Enable() error {
	g.mu.Lock()
	g.disabled = false
	g.mu.Unlock()
	return nil
}

func (g *Gate) Disable() error {
	g.mu.Lock()
	g.disabled = true
	g.mu.Unlock()
	return nil
}

func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.disabled
}

func (g *Gate) Mute() {
	g.mu.Lock()
	g.muted = true
	g.mu.Unlock()
}

func (g *Gate) Unmute() {
	g.mu.Lock()
	g.muted = false
	g.mu.Unlock()
}

func (g *Gate) Muted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.muted
}

func (g *Gate) MasterVolume() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.master
}

// SetMasterVolume clamps v to 0..1
func (g *Gate) SetMasterVolume(v float64) {
	g.mu.Lock()
	g.master = clampUnit(v)
	g.mu.Unlock()
}

// Level is the multiplier for new sounds: 0 when muted, the master volume
// otherwise. ok is false when the gate is disabled and sounds must be declined.
func (g *Gate) Level() (level float64, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disabled {
		return 0, false
	}
	if g.muted {
		return 0, true
	}
	return g.master, true
}

func clampUnit(v float64) float64 {
	if !(v >= 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
