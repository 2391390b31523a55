// Package presets holds ready-made tones, noises and instruments.
//
// Every function returns a fresh value, so callers may modify the result.
package presets

import (
	"sort"
	"strings"

	"go-sounddeck/deck"
	"go-sounddeck/stave"
)

func pattern(steps ...float64) deck.PlayPattern {
	p := make(deck.PlayPattern, 0, len(steps)/2)
	for i := 0; i+1 < len(steps); i += 2 {
		p = append(p, deck.PatternStep{Time: steps[i], Vol: steps[i+1]})
	}
	return p
}

func tone(freq, end, seconds float64, w deck.Waveform, p deck.PlayPattern) deck.ToneConfig {
	return deck.ToneConfig{
		NoiseConfig: noise(freq, end, seconds, p),
		Waveform:    w,
	}
}

func noise(freq, end, seconds float64, p deck.PlayPattern) deck.NoiseConfig {
	return deck.NoiseConfig{
		PlayOptions:  deck.PlayOptions{Volume: 1, PlayPattern: p},
		Duration:     seconds,
		Frequency:    freq,
		EndFrequency: end,
	}
}

// Tones

func NeutralBell() deck.ToneConfig {
	return tone(640, 640, 0.5, deck.Square, pattern(0, 0.3, 0.1, 1, 0.3, 1, 1, 0.1))
}

func SpringyBounce() deck.ToneConfig {
	return tone(600, 1040, 0.5, deck.Sawtooth, pattern(0, 0.3, 0.1, 1, 0.3, 1, 1, 0.1))
}

func NegativeBeep() deck.ToneConfig {
	return tone(520, 380, 0.7, deck.Triangle, pattern(0, 0.3, 0.3, 1, 0.4, 1, 1, 0.1))
}

func SlowPulse() deck.ToneConfig {
	return tone(440, 440, 2, deck.Sine, pattern(0, 0.1, 0.25, 1, 0.5, 0.1, 0.75, 1, 1, 0.1))
}

// Noises

func Snap() deck.NoiseConfig {
	return noise(900, 1280, 0.3, pattern(0, 0.5, 0.05, 1, 1, 0.1))
}

func Tap() deck.NoiseConfig {
	return noise(1540, 1980, 0.1, pattern(0, 0.5, 0.05, 1, 1, 0.01))
}

func Hiss() deck.NoiseConfig {
	return noise(1200, 1200, 1, pattern(0, 1, 0.6, 1, 1, 0.01))
}

func Whoosh() deck.NoiseConfig {
	return noise(320, 740, 0.7, pattern(0, 0.1, 0.1, 1, 0.125, 0.9, 0.15, 1, 0.175, 0.9, 0.2, 1, 1, 0.1))
}

// OrganWaveName is the custom waveform name the Organ instrument plays
const OrganWaveName = "organ"

// OrganWave returns Fourier coefficients for a drawbar-organ timbre
// (fundamental, octave, twelfth and higher footages)
func OrganWave() (real, imag []float64) {
	imag = []float64{0, 1, 0.8, 0.6, 0.5, 0, 0.3, 0, 0.25}
	real = make([]float64, len(imag))
	return real, imag
}

// Instruments

// Bell is a soft triangle with a slow swell
func Bell() stave.Instrument {
	return stave.Tone{
		Waveform:    deck.Triangle,
		PlayPattern: pattern(0, 0.1, 0.2, 1, 0.25, 1, 1, 0.01),
	}
}

// Organ sustains; it needs OrganWave defined on the deck, otherwise it plays
// as a sine
func Organ() stave.Instrument {
	return stave.Tone{
		Waveform:    deck.Triangle,
		CustomWave:  OrganWaveName,
		PlayPattern: pattern(0, 0.1, 0.1, 1, 0.8, 1, 1, 0.01),
	}
}

// Boing has the springy bounce timbre
func Boing() stave.Instrument {
	return ToneInstrument(SpringyBounce())
}

// Snare is a tap of noise
func Snare() stave.Instrument {
	return NoiseInstrument(Tap())
}

// ToneInstrument takes the timbre of a tone preset; frequency and duration
// come from the notes instead
func ToneInstrument(cfg deck.ToneConfig) stave.Tone {
	return stave.Tone{
		Waveform:    cfg.Waveform,
		CustomWave:  cfg.CustomWave,
		PlayPattern: cfg.PlayPattern,
		Loop:        cfg.Loop,
	}
}

// NoiseInstrument takes the timbre of a noise preset
func NoiseInstrument(cfg deck.NoiseConfig) stave.Noise {
	return stave.Noise{
		PlayPattern: cfg.PlayPattern,
		Loop:        cfg.Loop,
	}
}

var tones = map[string]func() deck.ToneConfig{
	"neutral_bell":   NeutralBell,
	"springy_bounce": SpringyBounce,
	"negative_beep":  NegativeBeep,
	"slow_pulse":     SlowPulse,
}

var noises = map[string]func() deck.NoiseConfig{
	"snap":   Snap,
	"tap":    Tap,
	"hiss":   Hiss,
	"whoosh": Whoosh,
}

var instruments = map[string]func() stave.Instrument{
	"bell":  Bell,
	"organ": Organ,
	"boing": Boing,
	"snare": Snare,
}

// normalize lets "Neutral Bell", "NEUTRAL_BELL" and "neutral-bell" match
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// Tone looks up a tone preset by name
func Tone(name string) (deck.ToneConfig, bool) {
	fn, ok := tones[normalize(name)]
	if !ok {
		return deck.ToneConfig{}, false
	}
	return fn(), true
}

// Noise looks up a noise preset by name
func Noise(name string) (deck.NoiseConfig, bool) {
	fn, ok := noises[normalize(name)]
	if !ok {
		return deck.NoiseConfig{}, false
	}
	return fn(), true
}

// Instrument looks up an instrument by name. Tone and noise preset names work
// too and give an instrument with that preset's timbre.
func Instrument(name string) (stave.Instrument, bool) {
	key := normalize(name)
	if fn, ok := instruments[key]; ok {
		return fn(), true
	}
	if cfg, ok := Tone(key); ok {
		return ToneInstrument(cfg), true
	}
	if cfg, ok := Noise(key); ok {
		return NoiseInstrument(cfg), true
	}
	return nil, false
}

// Names lists instrument, tone and noise names, sorted within each group
func Names() (instrumentNames, toneNames, noiseNames []string) {
	return sortedKeys(instruments), sortedKeys(tones), sortedKeys(noises)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
