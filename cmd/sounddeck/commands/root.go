package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-sounddeck/config"
	"go-sounddeck/debug"
)

const appName = "sounddeck"

// options shared by every subcommand
type rootOptions struct {
	configPath string
	debug      bool

	cfg *config.Config
}

// NewRootCommand builds the command tree. Each call returns fresh flag state.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Play note-notation music",
		Long: `sounddeck plays music written as note notation.

Staves of notes such as "C4.D E | F.." are played together against one beat
clock, on the audio device, on an external MIDI synth, or as a dry run that
prints every note.

Configuration is stored in ~/.config/go-sounddeck/config.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			debug.Disable()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ~/.config/go-sounddeck/config.json)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write a debug log")

	cmd.AddCommand(
		newPlayCommand(opts),
		newParseCommand(),
		newSongsCommand(),
		newToneCommand(opts),
		newPortsCommand(),
		newKeysCommand(opts),
		newConfigCommand(opts),
	)
	return cmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *rootOptions) init() error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFrom(o.configPath)
	} else {
		o.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("%s config: %w", appName, err)
	}

	if o.debug || o.cfg.Debug.Enabled {
		if err := debug.Enable(o.cfg.Debug.Path); err != nil {
			return err
		}
	}
	debug.Log("cli", "config loaded: output=%s", o.cfg.Output)
	return nil
}

// save writes the config back where it was loaded from
func (o *rootOptions) save() error {
	return o.saveConfig(o.cfg)
}

func (o *rootOptions) saveConfig(cfg *config.Config) error {
	if o.configPath != "" {
		return cfg.SaveTo(o.configPath)
	}
	return cfg.Save()
}
