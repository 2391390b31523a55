package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-sounddeck/config"
	"go-sounddeck/debug"
	"go-sounddeck/score"
	"go-sounddeck/sequencer"
	"go-sounddeck/songs"
	"go-sounddeck/theme"
	"go-sounddeck/tui"
)

const defaultSong = "ode_to_joy"

type playOptions struct {
	*rootOptions

	tempo     float64
	loop      bool
	output    string
	dryRun    bool
	noTUI     bool
	fade      float64
	transpose int
}

func newPlayCommand(root *rootOptions) *cobra.Command {
	o := &playOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "play [song | file.yaml]",
		Short: "Play a built-in song or a score file",
		Long: `Play a built-in song (see "sounddeck songs") or a YAML score file.

Without an argument the last song played is used. The transport view accepts:
  space  pause / resume
  f      fade out
  s      stop
  + / -  tempo
  q      quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: o.run,
	}

	f := cmd.Flags()
	f.Float64Var(&o.tempo, "tempo", 0, "beats per second (default from score or config)")
	f.BoolVar(&o.loop, "loop", false, "restart from the top when the music ends")
	f.StringVarP(&o.output, "output", "o", "", "synth, midi or dry (default from config)")
	f.BoolVar(&o.dryRun, "dry-run", false, "print notes instead of playing them")
	f.BoolVar(&o.noTUI, "no-tui", false, "play without the transport view")
	f.Float64Var(&o.fade, "fade", 0, "fade out length in seconds (default from config)")
	f.IntVar(&o.transpose, "transpose", 0, "shift every stave by semitones")
	return cmd
}

// piece is what the play command resolved from its argument
type piece struct {
	id     string
	sc     *score.Score
	legend []string
}

func loadPiece(arg string) (*piece, error) {
	ext := strings.ToLower(filepath.Ext(arg))
	if ext == ".yaml" || ext == ".yml" {
		sc, err := score.Load(arg)
		if err != nil {
			return nil, err
		}
		return &piece{id: arg, sc: sc, legend: legendFor(sc)}, nil
	}

	song, err := songs.ByID(arg)
	if err != nil {
		if errors.Is(err, songs.ErrNotFound) {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(songs.IDs(), ", "))
		}
		return nil, err
	}
	return &piece{id: song.ID, sc: song.Score, legend: legendFor(song.Score)}, nil
}

func legendFor(sc *score.Score) []string {
	out := make([]string, len(sc.Parts))
	for i, s := range sc.Parts {
		switch {
		case s.Instrument.Inline != nil && s.Instrument.Inline.Sound != "":
			out[i] = "inline " + s.Instrument.Inline.Sound
		case s.Instrument.Inline != nil:
			out[i] = "inline tone"
		default:
			out[i] = s.Instrument.Name
		}
	}
	return out
}

func (o *playOptions) run(cmd *cobra.Command, args []string) error {
	cfg := o.cfg

	id := cfg.UI.LastSong
	if len(args) == 1 {
		id = args[0]
	}
	if id == "" {
		id = defaultSong
	}
	p, err := loadPiece(id)
	if err != nil {
		return err
	}

	staves, err := p.sc.Staves()
	if err != nil {
		return fmt.Errorf("%s: %w", p.id, err)
	}
	if o.transpose != 0 {
		for i, s := range staves {
			staves[i] = s.Transpose(o.transpose)
		}
	}

	tempo := o.resolveTempo(p)
	loop := o.loop || p.sc.Loop || cfg.Playback.Loop
	fade := cfg.Playback.FadeSeconds
	if o.fade > 0 {
		fade = o.fade
	}

	output := cfg.Output
	if o.output != "" {
		output = config.Output(o.output)
	}
	if o.dryRun {
		output = config.OutputDry
	}
	headless := o.noTUI || output == config.OutputDry

	d, closeDeck, err := openDeck(cfg, output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeDeck()

	title := p.sc.Title
	if title == "" {
		title = p.id
	}
	debug.Log("cli", "play %s: %d staves tempo=%.2f loop=%v output=%s", p.id, len(staves), tempo, loop, output)

	cfg.UI.LastSong = p.id
	mc := sequencer.New(d).PlayMusic(staves, tempo, loop)

	var ok bool
	if headless {
		ok, err = o.waitHeadless(cmd, mc, title)
	} else {
		ok, err = o.runTUI(mc, title, p, fade)
	}
	if err != nil {
		return err
	}

	if err := o.save(); err != nil {
		debug.Log("cli", "save config: %v", err)
	}

	if ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: finished\n", title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: stopped\n", title)
	}
	return nil
}

// resolveTempo: flag, then the tempo last used for this piece, then the
// score's own, then the config default
func (o *playOptions) resolveTempo(p *piece) float64 {
	if o.tempo > 0 {
		return o.tempo
	}
	if o.cfg.UI.LastSong == p.id && o.cfg.UI.LastTempo >= 1 {
		return o.cfg.UI.LastTempo
	}
	return p.sc.TempoOr(o.cfg.Playback.Tempo)
}

func (o *playOptions) waitHeadless(cmd *cobra.Command, mc *sequencer.MusicControl, title string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %.0f beats at tempo %.1f\n", title, mc.Duration(), mc.Tempo())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ok, err := mc.Wait(ctx)
	if errors.Is(err, context.Canceled) {
		mc.Stop()
		return false, nil
	}
	return ok, err
}

func (o *playOptions) runTUI(mc *sequencer.MusicControl, title string, p *piece, fade float64) (bool, error) {
	th, err := theme.Load(o.cfg.UI.Palette)
	if err != nil {
		return false, err
	}

	m := tui.NewModel(mc, th, tui.Options{
		Title:       title,
		Legend:      p.legend,
		FadeSeconds: fade,
		OnTempo: func(tempo float64) {
			// runs on the debounce timer; write a copy
			snapshot := *o.cfg
			snapshot.UI.LastTempo = tempo
			if err := o.saveConfig(&snapshot); err != nil {
				debug.Log("tui", "save tempo: %v", err)
			}
		},
		QuitOnEnd: !mc.Loop(),
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	mc.Stop()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}
	o.cfg.UI.LastTempo = mc.Tempo()

	if fm, ok := final.(tui.Model); ok {
		_, succeeded := fm.Ended()
		return succeeded, nil
	}
	return mc.Succeeded(), nil
}
