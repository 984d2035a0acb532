package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redbadger/webdeploy/constants"
)

const (
	keyScripts      = "scripts"
	keyShell        = "shell"
	keyBuildCommand = "build-command"
	keyHistory      = "history"
	keyVerbose      = "verbose"
)

var (
	cfgFile   string
	workspace string
)

var rootCmd = &cobra.Command{
	Use:   "webdeploy",
	Short: "Build a web application and deploy it to an IIS application server",
	Long: `
	webdeploy runs a deploy of the web application in the workspace:

	1. checks the credentials against the application folder on the server
	2. builds the project for the requested configuration
	3. puts configuration.<env>.json into the build output as configuration.json
	   (when jsonConfiguration is set in the deploy settings)
	4. copies the build output to the server with the deploy script
	`,
	Version:       constants.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool(keyVerbose) {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.webdeploy.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "web application workspace")
	rootCmd.PersistentFlags().String(keyScripts, "", "directory holding the PowerShell scripts (default is scripts/ next to the executable)")
	rootCmd.PersistentFlags().String(keyShell, constants.DefaultShell, "PowerShell executable")
	rootCmd.PersistentFlags().String(keyBuildCommand, constants.DefaultBuildCommand, "build command, --configuration=<name> is appended")
	rootCmd.PersistentFlags().String(keyHistory, "", "run history database (default is $HOME/.webdeploy/history.db, \"off\" disables it)")
	rootCmd.PersistentFlags().BoolP(keyVerbose, "v", false, "debug logging")

	for _, key := range []string{keyScripts, keyShell, keyBuildCommand, keyHistory, keyVerbose} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

func initConfig() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".webdeploy")
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("username", constants.UsernameEnvVar)

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

func scriptsDir() string {
	if dir := viper.GetString(keyScripts); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "scripts"
	}
	return filepath.Join(filepath.Dir(exe), "scripts")
}

func historyPath() (string, error) {
	if p := viper.GetString(keyHistory); p != "" {
		return p, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".webdeploy", "history.db"), nil
}
