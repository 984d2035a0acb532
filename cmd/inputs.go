package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/paths"
	"github.com/redbadger/webdeploy/powershell"
)

var errSettingsCreated = errors.New(constants.DefaultSettingsFile +
	" has been created. Please fill in the configuration parameters and try again.")

func scripts() powershell.Scripts {
	return powershell.Scripts{Shell: viper.GetString(keyShell), Dir: scriptsDir()}
}

// openWorkspace returns a resolver for the workspace. A workspace without
// deploy.config.json gets the template and errSettingsCreated.
func openWorkspace() (*paths.Resolver, error) {
	resolver, err := paths.New(workspace)
	if err != nil {
		return nil, err
	}
	created, err := resolver.EnsureDefaultSettings()
	if err != nil {
		return nil, err
	}
	if created {
		return nil, errSettingsCreated
	}
	return resolver, nil
}

// configuration is the positional argument, or defaultConfiguration from
// deploy.config.json
func configuration(resolver *paths.Resolver, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	defaults, err := resolver.DefaultSettings()
	if err != nil {
		return "", err
	}
	if defaults.DefaultConfigurationName == "" {
		return "", errors.New("no configuration given and defaultConfiguration is not set in " + constants.DefaultSettingsFile)
	}
	return defaults.DefaultConfigurationName, nil
}

// askCredentials takes the username from --username, WEBDEPLOY_USERNAME or a prompt,
// and the password from WEBDEPLOY_PASSWORD or a prompt
func askCredentials(cmd *cobra.Command, username string) (string, model.Password, error) {
	p := newPrompter(cmd)
	var err error
	if username == "" {
		username = viper.GetString("username")
	}
	if username == "" {
		if username, err = p.input("Username"); err != nil {
			return "", model.Password{}, err
		}
	}
	if username == "" {
		return "", model.Password{}, errors.New("a username is required")
	}

	password, _ := os.LookupEnv(constants.PasswordEnvVar)
	if password == "" {
		if password, err = p.password("Password"); err != nil {
			return "", model.Password{}, err
		}
	}
	return username, model.NewPassword(password), nil
}
