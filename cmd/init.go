package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty " + constants.DefaultSettingsFile + " in the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := paths.New(workspace)
		if err != nil {
			return err
		}
		created, err := resolver.EnsureDefaultSettings()
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "%s created!\n", resolver.Abs(constants.DefaultSettingsFile))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", resolver.Abs(constants.DefaultSettingsFile))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
