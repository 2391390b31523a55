package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"go-sounddeck/debug"
	"go-sounddeck/deck"
)

// ErrNoAudio is returned when the audio device cannot be opened
var ErrNoAudio = errors.New("no audio output")

// Options configure the audio deck
type Options struct {
	SampleRate   int
	MasterVolume float64
	// Disabled starts the deck suspended: every play call is declined until Enable
	Disabled bool
}

// Deck plays sounds on the default audio device. Each sound is rendered in
// full and given its own player.
type Deck struct {
	*deck.Gate

	ctx  *oto.Context
	rate int

	mu      sync.Mutex
	waves   map[string]Wave
	samples map[string][]float32
	rng     *rand.Rand
	active  map[*sound]struct{}
}

// NewDeck opens the audio device. Only one deck may exist per process.
func NewDeck(opts Options) (*Deck, error) {
	rate := opts.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoAudio, err)
	}
	<-ready

	d := &Deck{
		Gate:    deck.NewGate(opts.MasterVolume),
		ctx:     ctx,
		rate:    rate,
		waves:   make(map[string]Wave),
		samples: make(map[string][]float32),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		active:  make(map[*sound]struct{}),
	}
	if opts.Disabled {
		if err := d.Disable(); err != nil {
			return nil, err
		}
	}
	debug.Log("synth", "audio open: %d Hz, master=%.2f", rate, d.MasterVolume())
	return d, nil
}

// SampleRate of the output
func (d *Deck) SampleRate() int { return d.rate }

// DefineCustomWaveform registers a waveform tones can select by name. It
// returns false when real and imag differ in length.
func (d *Deck) DefineCustomWaveform(name string, real, imag []float64) bool {
	w, err := NewWave(real, imag)
	if err != nil {
		debug.Log("synth", "waveform %s: %v", name, err)
		return false
	}
	d.mu.Lock()
	d.waves[name] = w
	d.mu.Unlock()
	return true
}

// DefineSample registers mono samples at the deck's sample rate under name
func (d *Deck) DefineSample(name string, mono []float32) {
	d.mu.Lock()
	d.samples[name] = mono
	d.mu.Unlock()
}

func (d *Deck) PlayTone(cfg deck.ToneConfig) deck.Control {
	if !d.Enabled() {
		return nil
	}
	d.mu.Lock()
	custom := d.waves[cfg.CustomWave]
	d.mu.Unlock()
	return d.start(RenderTone(cfg, d.rate, custom), cfg.Loop)
}

func (d *Deck) PlayNoise(cfg deck.NoiseConfig) deck.Control {
	if !d.Enabled() {
		return nil
	}
	d.mu.Lock()
	mono := RenderNoise(cfg, d.rate, d.rng)
	d.mu.Unlock()
	return d.start(mono, cfg.Loop)
}

// PlaySample plays a sample defined with DefineSample; unknown names are declined
func (d *Deck) PlaySample(name string, opts deck.PlayOptions) deck.Control {
	if !d.Enabled() {
		return nil
	}
	d.mu.Lock()
	mono, ok := d.samples[name]
	d.mu.Unlock()
	if !ok {
		return nil
	}
	return d.start(ApplyEnvelope(mono, opts), opts.Loop)
}

func (d *Deck) start(mono []float32, loop bool) deck.Control {
	level, ok := d.Level()
	if !ok {
		return nil
	}

	s := &sound{
		player: d.ctx.NewPlayer(&soundReader{data: Interleave(mono), loop: loop}),
		done:   make(chan struct{}),
		deck:   d,
	}
	s.player.SetVolume(level)

	d.mu.Lock()
	d.active[s] = struct{}{}
	d.mu.Unlock()

	s.player.Play()
	go s.watch()
	return s
}

// Enable resumes audio output
func (d *Deck) Enable() error {
	if err := d.ctx.Resume(); err != nil {
		return fmt.Errorf("resume audio: %w", err)
	}
	return d.Gate.Enable()
}

// Disable suspends audio output; sounds already playing are silenced
func (d *Deck) Disable() error {
	if err := d.ctx.Suspend(); err != nil {
		return fmt.Errorf("suspend audio: %w", err)
	}
	return d.Gate.Disable()
}

func (d *Deck) Mute() {
	d.Gate.Mute()
	d.applyLevel()
}

func (d *Deck) Unmute() {
	d.Gate.Unmute()
	d.applyLevel()
}

func (d *Deck) SetMasterVolume(v float64) {
	d.Gate.SetMasterVolume(v)
	d.applyLevel()
}

// applyLevel pushes the master level to sounds already playing
func (d *Deck) applyLevel() {
	level, _ := d.Level()
	d.mu.Lock()
	defer d.mu.Unlock()
	for s := range d.active {
		s.player.SetVolume(level)
	}
}

// Close stops every sound
func (d *Deck) Close() error {
	d.mu.Lock()
	playing := make([]*sound, 0, len(d.active))
	for s := range d.active {
		playing = append(playing, s)
	}
	d.mu.Unlock()

	for _, s := range playing {
		s.Stop()
	}
	return nil
}

// sound is the Control for one player
type sound struct {
	player *oto.Player
	done   chan struct{}
	once   sync.Once
	deck   *Deck
}

func (s *sound) Done() <-chan struct{} {
	return s.done
}

func (s *sound) Stop() {
	s.once.Do(func() {
		s.player.Pause()
		if err := s.player.Close(); err != nil {
			debug.Log("synth", "close player: %v", err)
		}
		s.deck.mu.Lock()
		delete(s.deck.active, s)
		s.deck.mu.Unlock()
		close(s.done)
	})
}

// watch ends the sound once the player runs dry
func (s *sound) watch() {
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			if !s.player.IsPlaying() {
				s.Stop()
				return
			}
		}
	}
}
