package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"go-sounddeck/config"
)

func newConfigCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage sounddeck configuration.

Configuration is stored in ~/.config/go-sounddeck/config.json`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := json.MarshalIndent(root.cfg, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := root.configPath
				if path == "" {
					var err error
					if path, err = config.ConfigPath(); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Write the default configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				root.cfg = config.DefaultConfig()
				if err := root.save(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "config reset to defaults")
				return nil
			},
		},
	)
	return cmd
}
