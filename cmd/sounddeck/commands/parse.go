package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-sounddeck/stave"
)

func newParseCommand() *cobra.Command {
	var transpose int

	cmd := &cobra.Command{
		Use:   "parse <notation>...",
		Short: "Show how note notation is read",
		Long: `Parse note notation and print one row per note.

Notation: note names A-G with # or b, or "-" for a rest. An optional octave
digit 0-8 sticks for later notes; ^ and v shift one octave up or down. A
note lasts a quarter beat and each "." adds another. Bar lines and
whitespace are ignored.`,
		Example: `  sounddeck parse "C4.D E | F... - G^"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns := stave.Parse(strings.Join(args, " "))
			if transpose != 0 {
				ns = stave.New(nil, ns).Transpose(transpose).Notes()
			}
			return printNotes(cmd, ns)
		},
	}
	cmd.Flags().IntVar(&transpose, "transpose", 0, "shift by semitones")
	return cmd
}

func printNotes(cmd *cobra.Command, ns []stave.Note) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tAT\tBEATS\tNOTE\tHZ")

	var total float64
	for i, n := range ns {
		name, hz := "rest", "-"
		if !n.IsRest() {
			name = n.Pitch.String()
			hz = fmt.Sprintf("%.2f", n.Pitch.Frequency())
		}
		fmt.Fprintf(w, "%d\t%g\t%g\t%s\t%s\n", i, n.AtBeat, n.Beats, name, hz)
		total = n.AtBeat + n.Beats
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d notes, %g beats\n", len(ns), total)
	return nil
}
