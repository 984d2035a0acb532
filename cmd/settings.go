package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [configuration]",
	Short: "Show which deploy settings file governs a configuration, and its content",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openWorkspace()
		if err != nil {
			return err
		}
		config, err := configuration(resolver, args)
		if err != nil {
			return err
		}
		file, settings, err := resolver.GoverningSettings(config)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s (configuration %s)\n%s", file, config, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}
