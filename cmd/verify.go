package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redbadger/webdeploy/credentials"
	"github.com/redbadger/webdeploy/process"
)

var verifyUsername string

var verifyCmd = &cobra.Command{
	Use:   "verify [configuration]",
	Short: "Check the credentials against the application server without deploying",
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
		username, password, err := askCredentials(cmd, verifyUsername)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Testing credentials for %s on %s (%s)\n", username, settings.Server, file)
		v := credentials.New(process.ExecRunner{}, scripts()).
			Verify(cmd.Context(), settings.Server, username, password, settings.AppFolderLocation)
		if !v.Success {
			fmt.Fprintln(cmd.OutOrStdout(), consoleFailure("Credential test failed: "+v.Message))
			return v.Err
		}
		fmt.Fprintln(cmd.OutOrStdout(), consoleSuccess(v.Message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyUsername, "username", "u", "", "account on the application server (or WEBDEPLOY_USERNAME)")
}
