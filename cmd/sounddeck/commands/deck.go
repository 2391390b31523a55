package commands

import (
	"fmt"
	"io"

	"go-sounddeck/config"
	"go-sounddeck/debug"
	"go-sounddeck/deck"
	"go-sounddeck/midi"
	"go-sounddeck/presets"
	"go-sounddeck/synth"
)

// openDeck builds the deck selected by output. Dry runs print every note to w.
func openDeck(cfg *config.Config, output config.Output, w io.Writer) (deck.Deck, func(), error) {
	switch output {
	case config.OutputSynth:
		d, err := synth.NewDeck(synth.Options{
			SampleRate:   cfg.Audio.SampleRate,
			MasterVolume: cfg.Audio.MasterVolume,
		})
		if err != nil {
			return nil, nil, err
		}
		real, imag := presets.OrganWave()
		d.DefineCustomWaveform(presets.OrganWaveName, real, imag)
		return d, func() { d.Close() }, nil

	case config.OutputMIDI:
		d, err := midi.OpenDeck(cfg.MIDI.Port, cfg.MIDI.Channel, cfg.MIDI.Kit)
		if err != nil {
			return nil, nil, err
		}
		d.SetMasterVolume(cfg.Audio.MasterVolume)
		return d, func() {
			if err := d.Close(); err != nil {
				debug.Log("midi", "close: %v", err)
			}
		}, nil

	case config.OutputDry:
		rec := deck.NewRecorder()
		rec.OnCall = func(c deck.Call) {
			printCall(w, c)
		}
		return rec, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown output %q (synth, midi or dry)", output)
}

func printCall(w io.Writer, c deck.Call) {
	shape := string(c.Waveform)
	if c.CustomWave != "" {
		shape = c.CustomWave
	}
	if shape == "" {
		shape = "-"
	}
	fmt.Fprintf(w, "%-5s %8.2f Hz  %5.2fs  vol %.2f  %s\n",
		c.Kind, c.Frequency, c.Duration, c.Volume, shape)
}
