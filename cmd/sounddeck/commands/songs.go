package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-sounddeck/songs"
)

func newSongsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "songs",
		Short: "List built-in songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTAVES\tBEATS\tTEMPO\tLOOP")

			for _, s := range songs.All() {
				staves, err := s.Score.Staves()
				if err != nil {
					return fmt.Errorf("%s: %w", s.ID, err)
				}
				var beats float64
				for _, st := range staves {
					beats = max(beats, st.Duration())
				}
				loop := ""
				if s.Score.Loop {
					loop = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%s\n",
					s.ID, s.Title, len(staves), beats, s.Score.Tempo, loop)
			}
			return w.Flush()
		},
	}
}
