package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-sounddeck/config"
	"go-sounddeck/midi"
	"go-sounddeck/notes"
	"go-sounddeck/presets"
)

func newKeysCommand(root *rootOptions) *cobra.Command {
	var (
		port       string
		output     string
		instrument string
	)

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Play a MIDI keyboard through the configured output",
		Long: `Listen on a MIDI input port and play every key pressed. Held keys
sound until released. Press Ctrl+C to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg

			inst, ok := presets.Instrument(instrument)
			if !ok {
				return fmt.Errorf("unknown instrument %q", instrument)
			}
			if port == "" {
				port = cfg.MIDI.InputPort
			}
			out := cfg.Output
			if output != "" {
				out = config.Output(output)
			}

			kb, err := midi.OpenKeyboard(port)
			if err != nil {
				return err
			}
			defer kb.Close()

			d, closeDeck, err := openDeck(cfg, out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeDeck()

			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s, playing %s (Ctrl+C to exit)\n", kb.ID(), instrument)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			kb.Play(ctx, d, inst, func(ev midi.NoteEvent) {
				if ev.On {
					fmt.Fprintf(cmd.OutOrStdout(), "%-4s vel %3d\n", notes.FromMIDI(ev.Note), ev.Velocity)
				}
			})
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&port, "port", "", "MIDI input port (default from config, else the first)")
	f.StringVarP(&output, "output", "o", "", "synth, midi or dry (default from config)")
	f.StringVarP(&instrument, "instrument", "i", "organ", "instrument or preset name")
	return cmd
}
