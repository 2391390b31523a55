// Package synth renders tones and noises to PCM and plays them on the
// default audio device through oto.
package synth

import (
	"errors"
	"math"
	"math/rand/v2"

	"go-sounddeck/deck"
)

const (
	// DefaultSampleRate is used when Options.SampleRate is unset
	DefaultSampleRate = 44100
	// ChannelCount is fixed: every sound is rendered mono and duplicated
	ChannelCount = 2

	waveTableSize = 2048
	bandpassQ     = 1.0
	// filter coefficients are refreshed this often while the centre moves
	coeffInterval = 32
)

// ErrWaveShape is returned when a custom waveform's coefficient slices differ in length
var ErrWaveShape = errors.New("real and imag coefficients differ in length")

// Wave is one cycle of a custom periodic waveform
type Wave []float64

// NewWave builds a waveform from Fourier coefficients: real[k] scales
// cos(k·x), imag[k] scales sin(k·x). Index 0 (DC) is ignored and the result is
// normalised to a peak of 1.
func NewWave(real, imag []float64) (Wave, error) {
	if len(real) != len(imag) {
		return nil, ErrWaveShape
	}

	w := make(Wave, waveTableSize)
	peak := 0.0
	for i := range w {
		x := 2 * math.Pi * float64(i) / waveTableSize
		var v float64
		for k := 1; k < len(real); k++ {
			v += real[k]*math.Cos(float64(k)*x) + imag[k]*math.Sin(float64(k)*x)
		}
		w[i] = v
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0 {
		for i := range w {
			w[i] /= peak
		}
	}
	return w, nil
}

// at samples the table at phase 0..1 with linear interpolation
func (w Wave) at(phase float64) float64 {
	pos := phase * float64(len(w))
	i := int(pos)
	frac := pos - float64(i)
	a := w[i%len(w)]
	b := w[(i+1)%len(w)]
	return a + (b-a)*frac
}

// oscillate returns the waveform value at phase 0..1
func oscillate(shape deck.Waveform, phase float64) float64 {
	switch shape {
	case deck.Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case deck.Sawtooth:
		return 2*phase - 1
	case deck.Triangle:
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	}
	return math.Sin(2 * math.Pi * phase)
}

// RenderTone renders cfg as mono samples. custom is the table for a custom
// waveform; with none, custom tones fall back to a sine.
func RenderTone(cfg deck.ToneConfig, sampleRate int, custom Wave) []float32 {
	cfg = cfg.WithDefaults()
	n := int(cfg.Duration * float64(sampleRate))
	out := make([]float32, n)

	phase := 0.0
	for i := range out {
		p := float64(i) / float64(n)
		freq := cfg.Frequency + (cfg.EndFrequency-cfg.Frequency)*p

		var v float64
		if custom != nil {
			v = custom.at(phase)
		} else {
			v = oscillate(cfg.Waveform, phase)
		}
		out[i] = float32(v * cfg.Volume * cfg.PlayPattern.Gain(p))

		phase += freq / float64(sampleRate)
		phase -= math.Floor(phase)
	}
	return out
}

// biquad is a band-pass filter (constant 0 dB peak gain)
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func (f *biquad) tune(centre float64, sampleRate int) {
	nyquist := float64(sampleRate) / 2
	centre = math.Min(math.Max(centre, 10), nyquist*0.99)

	w0 := 2 * math.Pi * centre / float64(sampleRate)
	alpha := math.Sin(w0) / (2 * bandpassQ)
	a0 := 1 + alpha

	f.b0 = alpha / a0
	f.b1 = 0
	f.b2 = -alpha / a0
	f.a1 = -2 * math.Cos(w0) / a0
	f.a2 = (1 - alpha) / a0
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// RenderNoise renders white noise through a band-pass filter whose centre
// moves exponentially from Frequency to EndFrequency
func RenderNoise(cfg deck.NoiseConfig, sampleRate int, rng *rand.Rand) []float32 {
	cfg = cfg.WithDefaults()
	n := int(cfg.Duration * float64(sampleRate))
	out := make([]float32, n)

	var f biquad
	ratio := cfg.EndFrequency / cfg.Frequency
	for i := range out {
		p := float64(i) / float64(n)
		if i%coeffInterval == 0 {
			f.tune(cfg.Frequency*math.Pow(ratio, p), sampleRate)
		}
		v := f.process(rng.Float64()*2 - 1)
		out[i] = float32(v * cfg.Volume * cfg.PlayPattern.Gain(p))
	}
	return out
}

// ApplyEnvelope scales a sample by volume and the play pattern over its length
func ApplyEnvelope(mono []float32, opts deck.PlayOptions) []float32 {
	out := make([]float32, len(mono))
	for i, s := range mono {
		p := float64(i) / float64(len(mono))
		out[i] = float32(float64(s) * opts.Volume * opts.PlayPattern.Gain(p))
	}
	return out
}

// Interleave duplicates mono samples to both channels as float32 LE frames
func Interleave(mono []float32) []byte {
	buf := make([]byte, len(mono)*4*ChannelCount)
	for i, s := range mono {
		putStereoF32(buf, i, s)
	}
	return buf
}

func putStereoF32(buf []byte, i int, sample float32) {
	v := math.Float32bits(sample)
	for c := 0; c < ChannelCount; c++ {
		o := i*8 + c*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}
