package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"go-sounddeck/config"
	"go-sounddeck/deck"
	"go-sounddeck/presets"
	"go-sounddeck/sequencer"
	"go-sounddeck/stave"
)

var errDeclined = errors.New("the deck declined to play")

type toneOptions struct {
	*rootOptions

	output     string
	instrument string
	tempo      float64
	duration   float64
	waveform   string
	volume     float64
}

func newToneCommand(root *rootOptions) *cobra.Command {
	o := &toneOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "tone <preset | hz | notation>",
		Short: "Play one sound and wait for it to end",
		Long: `Play a single sound:

  a tone or noise preset    sounddeck tone neutral_bell
  a frequency in Hz         sounddeck tone 440 --waveform square
  a phrase of notation      sounddeck tone "C4 E G C5.." --instrument organ`,
		Args: cobra.MinimumNArgs(1),
		RunE: o.run,
	}

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "synth, midi or dry (default from config)")
	f.StringVarP(&o.instrument, "instrument", "i", "bell", "instrument for notation")
	f.Float64Var(&o.tempo, "tempo", 0, "beats per second for notation (default from config)")
	f.Float64Var(&o.duration, "duration", 1, "seconds, for a frequency")
	f.StringVar(&o.waveform, "waveform", string(deck.Sine), "sine, square, sawtooth or triangle, for a frequency")
	f.Float64Var(&o.volume, "volume", 1, "0-1")
	return cmd
}

func (o *toneOptions) run(cmd *cobra.Command, args []string) error {
	output := o.cfg.Output
	if o.output != "" {
		output = config.Output(o.output)
	}
	d, closeDeck, err := openDeck(o.cfg, output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeDeck()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arg := strings.Join(args, " ")

	var ctrl deck.Control
	if cfg, ok := presets.Tone(arg); ok {
		cfg.Volume *= o.volume
		ctrl = d.PlayTone(cfg)
	} else if cfg, ok := presets.Noise(arg); ok {
		cfg.Volume *= o.volume
		ctrl = d.PlayNoise(cfg)
	} else if hz, err := strconv.ParseFloat(arg, 64); err == nil {
		w := deck.Waveform(o.waveform)
		if !deck.ValidWaveform(w) || w == deck.Custom {
			return fmt.Errorf("unknown waveform %q", o.waveform)
		}
		ctrl = d.PlayTone(deck.ToneConfig{
			NoiseConfig: deck.NoiseConfig{
				PlayOptions: deck.PlayOptions{Volume: o.volume},
				Duration:    o.duration,
				Frequency:   hz,
			},
			Waveform: w,
		})
	} else {
		return o.playNotation(ctx, d, arg)
	}

	if ctrl == nil {
		return errDeclined
	}
	select {
	case <-ctrl.Done():
	case <-ctx.Done():
		ctrl.Stop()
	}
	return nil
}

func (o *toneOptions) playNotation(ctx context.Context, d deck.Deck, text string) error {
	inst, ok := presets.Instrument(o.instrument)
	if !ok {
		insts, tones, noises := presets.Names()
		return fmt.Errorf("unknown instrument %q (instruments: %s; tones: %s; noises: %s)", o.instrument,
			strings.Join(insts, ", "), strings.Join(tones, ", "), strings.Join(noises, ", "))
	}

	ns := stave.Parse(text)
	if len(ns) == 0 {
		return fmt.Errorf("%q is not a preset, a frequency or notation", text)
	}

	tempo := o.tempo
	if tempo <= 0 {
		tempo = o.cfg.Playback.Tempo
	}

	if !sequencer.New(d).PlayStave(ctx, inst, ns, tempo, o.volume) {
		if ctx.Err() != nil {
			return nil
		}
		return errDeclined
	}
	return nil
}
