package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-sounddeck/midi"
)

func newPortsCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List MIDI ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "(waiting up to %s...)\n", timeout)

			ports, err := midi.ListPorts(timeout)
			if errors.Is(err, midi.ErrScanTimeout) {
				fmt.Fprintln(out, "TIMEOUT! The MIDI driver is hung.")
				fmt.Fprintln(out, "Fix (macOS): sudo killall coreaudiod midiserver")
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "=== MIDI Input Ports ===")
			for i, name := range ports.In {
				fmt.Fprintf(out, "  %d: %s\n", i, name)
			}
			fmt.Fprintln(out, "\n=== MIDI Output Ports ===")
			for i, name := range ports.Out {
				fmt.Fprintf(out, "  %d: %s\n", i, name)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", midi.DefaultScanTimeout, "give up on a hung driver after this long")
	return cmd
}
