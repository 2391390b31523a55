package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-sounddeck/debug"
	"go-sounddeck/sequencer"
	"go-sounddeck/theme"
	"go-sounddeck/widgets"
)

const (
	tempoStep   = 0.5
	beatsPerBar = 4
	barWidth    = 40
)

// Options configure the transport view
type Options struct {
	Title       string
	Legend      []string // one label per stave
	FadeSeconds float64
	// OnTempo is called with the new tempo once changes settle
	OnTempo   func(tempo float64)
	SaveDelay time.Duration
	// QuitOnEnd exits the program when the music ends by itself
	QuitOnEnd bool
}

type Model struct {
	Control *sequencer.MusicControl
	Theme   *theme.Theme

	opts      Options
	beats     <-chan float64
	saveTempo func(func())

	beat     float64
	ended    bool
	success  bool
	quitting bool
}

// BeatMsg carries a whole beat announced by the music
type BeatMsg float64

// EndedMsg is sent once the music has ended
type EndedMsg struct {
	Succeeded bool
}

func NewModel(mc *sequencer.MusicControl, th *theme.Theme, opts Options) Model {
	beats := make(chan float64, 16)
	mc.OnBeat(func(b float64) {
		select {
		case beats <- b:
		default:
		}
	})

	if opts.SaveDelay <= 0 {
		opts.SaveDelay = 500 * time.Millisecond
	}
	if opts.FadeSeconds <= 0 {
		opts.FadeSeconds = 2
	}

	return Model{
		Control:   mc,
		Theme:     th,
		opts:      opts,
		beats:     beats,
		saveTempo: debounce.New(opts.SaveDelay),
	}
}

func ListenForUpdates(beats <-chan float64) tea.Cmd {
	return func() tea.Msg {
		return BeatMsg(<-beats)
	}
}

func ListenForEnd(mc *sequencer.MusicControl) tea.Cmd {
	return func() tea.Msg {
		<-mc.Done()
		return EndedMsg{Succeeded: mc.Succeeded()}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.beats),
		ListenForEnd(m.Control),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Control.Stop()
			return m, tea.Quit

		case " ":
			if m.Control.IsPaused() {
				m.Control.Resume()
			} else {
				beat := m.Control.Pause()
				debug.Log("tui", "paused at beat %.2f", beat)
			}

		case "s":
			m.Control.Stop()

		case "f":
			m.Control.FadeOut(m.opts.FadeSeconds)

		case "+", "=":
			m.changeTempo(tempoStep)

		case "-", "_":
			m.changeTempo(-tempoStep)
		}

	case BeatMsg:
		m.beat = float64(msg)
		return m, ListenForUpdates(m.beats)

	case EndedMsg:
		m.ended = true
		m.success = msg.Succeeded
		if m.opts.QuitOnEnd {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) changeTempo(delta float64) {
	m.Control.SetTempo(m.Control.Tempo() + delta)
	if m.opts.OnTempo == nil {
		return
	}
	tempo := m.Control.Tempo()
	save := m.opts.OnTempo
	m.saveTempo(func() { save(tempo) })
}

// Ended reports whether the music is over, and how it ended
func (m Model) Ended() (ended, succeeded bool) {
	return m.ended, m.success
}

func (m Model) state() (string, rune) {
	sym := m.Theme.Symbols
	switch {
	case m.ended && m.success:
		return "END", sym.Stop
	case m.ended:
		return "STOP", sym.Stop
	case m.Control.IsPaused():
		return "PAUSE", sym.Pause
	case m.Control.IsFading():
		return "FADE", sym.Play
	}
	return "PLAY", sym.Play
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	mc := m.Control
	th := m.Theme

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(th.FG())
	activeStyle := lipgloss.NewStyle().Foreground(th.Active())
	fadeStyle := lipgloss.NewStyle().Foreground(th.Warning())

	label, sym := m.state()
	title := m.opts.Title
	if title == "" {
		title = "go-sounddeck"
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %c %s  tempo %.1f  beat %5.2f/%-5g",
		title, sym, label, mc.Tempo(), mc.CurrentBeat(), mc.Duration()))

	progress := 0.0
	if mc.Duration() > 0 {
		progress = mc.CurrentBeat() / mc.Duration()
	}
	bar := widgets.RenderBar(barWidth, progress, th.Symbols.BarFull, th.Symbols.BarEmpty, activeStyle, dimStyle)
	beats := widgets.RenderBeats(m.beat, beatsPerBar, th.Symbols.Beat, th.Symbols.Offbeat, activeStyle, dimStyle)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n  ")
	out.WriteString(bar)
	out.WriteString("  ")
	out.WriteString(beats)
	out.WriteString("\n")

	if mc.IsFading() {
		out.WriteString("  ")
		out.WriteString(widgets.RenderBar(barWidth, mc.Volume(), th.Symbols.BarFull, th.Symbols.BarEmpty, fadeStyle, dimStyle))
		out.WriteString(fgStyle.Render(fmt.Sprintf("  vol %3.0f%%", mc.Volume()*100)))
		out.WriteString("\n")
	}

	if len(m.opts.Legend) > 0 {
		out.WriteString("\n")
		for i, name := range m.opts.Legend {
			c := th.Palette.Lookup(float64(i+1) / float64(len(m.opts.Legend)))
			out.WriteString(widgets.RenderLegendItem(c, fmt.Sprintf("stave %d", i+1), name))
			out.WriteString("\n")
		}
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))
	out.WriteString("\n")

	return out.String()
}

var keyHelp = []widgets.KeySection{{
	Keys: []widgets.KeyBinding{
		{Key: "space", Desc: "pause / resume"},
		{Key: "f", Desc: "fade out"},
		{Key: "s", Desc: "stop"},
		{Key: "+ / -", Desc: "tempo"},
		{Key: "q", Desc: "quit"},
	},
}}
