package deck

import "math"

// Waveform is an oscillator shape
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
	Triangle Waveform = "triangle"
	Custom   Waveform = "custom"
)

// ValidWaveform reports whether w is a known oscillator shape
func ValidWaveform(w Waveform) bool {
	switch w {
	case Sine, Square, Sawtooth, Triangle, Custom:
		return true
	}
	return false
}

// PatternStep sets the gain to Vol (relative to the sound's volume) at Time,
// a fraction 0-1 of the sound's duration
type PatternStep struct {
	Time float64 `json:"time" yaml:"time"`
	Vol  float64 `json:"vol" yaml:"vol"`
}

// PlayPattern is a gain envelope; the gain ramps exponentially between steps
type PlayPattern []PatternStep

// Gain returns the envelope value at fraction t of the duration. Steps outside
// 0-1 are ignored and non-positive volumes are raised to 0.0001 so the
// exponential ramp stays defined.
func (p PlayPattern) Gain(t float64) float64 {
	prevT, prevV := 0.0, 1.0
	for _, step := range p {
		if step.Time < 0 || step.Time > 1 {
			continue
		}
		vol := step.Vol
		if vol <= 0 {
			vol = 0.0001
		}
		if t < step.Time {
			span := step.Time - prevT
			if span <= 0 {
				return vol
			}
			frac := (t - prevT) / span
			return prevV * math.Pow(vol/prevV, frac)
		}
		prevT, prevV = step.Time, vol
	}
	return prevV
}

// PlayOptions are shared by tones, noises and samples
type PlayOptions struct {
	Volume      float64
	Loop        bool
	PlayPattern PlayPattern
}

// NoiseConfig describes a band-passed noise burst
type NoiseConfig struct {
	PlayOptions
	Duration     float64 // seconds
	Frequency    float64 // band centre, Hz
	EndFrequency float64 // 0 = same as Frequency
}

// WithDefaults fills unset fields
func (c NoiseConfig) WithDefaults() NoiseConfig {
	if c.Duration <= 0 {
		c.Duration = 1
	}
	if c.Frequency <= 0 {
		c.Frequency = 1000
	}
	if c.EndFrequency <= 0 {
		c.EndFrequency = c.Frequency
	}
	return c
}

// ToneConfig describes an oscillator tone
type ToneConfig struct {
	NoiseConfig
	Waveform   Waveform
	CustomWave string // name of a waveform defined on the deck
}

// WithDefaults fills unset fields
func (c ToneConfig) WithDefaults() ToneConfig {
	c.NoiseConfig = c.NoiseConfig.WithDefaults()
	if c.Waveform == "" {
		c.Waveform = Sine
	}
	return c
}
