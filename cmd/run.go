package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redbadger/webdeploy/build"
	"github.com/redbadger/webdeploy/credentials"
	"github.com/redbadger/webdeploy/deployer"
	"github.com/redbadger/webdeploy/history"
	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/pipeline"
	"github.com/redbadger/webdeploy/process"
	"github.com/redbadger/webdeploy/stager"
)

var (
	runUsername string
	runAppName  string
)

var runCmd = &cobra.Command{
	Use:     "run [configuration]",
	Aliases: []string{"deploy"},
	Short:   "Build the workspace and deploy it to the application server",
	Long: `
Build the workspace and deploy it to the application server:

1. picks deploy.<configuration>.config.json when it exists, deploy.config.json otherwise
2. checks the credentials against appFolderLocation on the server
3. runs the build with --configuration=<configuration>
4. copies src/assets/configuration/configuration.<configuration>.json into the build
   output as configuration.json, when jsonConfiguration is set
5. runs the deploy script against dist/<app>/browser (or dist/<app>)

The password is read from WEBDEPLOY_PASSWORD or prompted for.
	`,
	Example: `webdeploy run production --username deployer`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := openWorkspace()
		if err != nil {
			return err
		}
		config, err := configuration(resolver, args)
		if err != nil {
			return err
		}
		appName := runAppName
		if appName == "" {
			if appName, err = resolver.AppName(); err != nil {
				return err
			}
		}
		username, password, err := askCredentials(cmd, runUsername)
		if err != nil {
			return err
		}

		runner := process.ExecRunner{}
		out := newConsole(cmd.OutOrStdout())
		listeners := []pipeline.Listener{out}
		if store := openHistory(); store != nil {
			defer store.Close()
			listeners = append(listeners, history.Recorder{Store: store})
		}

		p := pipeline.New(pipeline.Stages{
			Settings: resolver,
			Verifier: credentials.New(runner, scripts()),
			Builder:  build.New(runner, viper.GetString(keyBuildCommand)),
			Stager:   stager.New(resolver),
			Deployer: deployer.New(runner, scripts()),
		}, out, listeners...)

		outcome, err := p.Run(cmd.Context(), model.RunRequest{
			Username:      username,
			Password:      password,
			Configuration: config,
			WorkspaceRoot: resolver.Root(),
			AppName:       appName,
		})
		if err != nil {
			return err
		}
		if !outcome.Succeeded() {
			return errors.Errorf("deploy %s", outcome)
		}
		return nil
	},
}

// openHistory returns nil when history is off or can't be opened
func openHistory() *history.Store {
	dsn, err := historyPath()
	if err != nil || dsn == "off" {
		return nil
	}
	store, err := history.Open(dsn)
	if err != nil {
		log.WithError(err).Warn("run history disabled")
		return nil
	}
	return store
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runUsername, "username", "u", "", "account on the application server (or WEBDEPLOY_USERNAME)")
	runCmd.Flags().StringVar(&runAppName, "app", "", "application name under dist/ (default is the name in package.json)")
}
