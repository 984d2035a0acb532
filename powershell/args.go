// Package powershell knows the argument contracts of the two PowerShell scripts a
// deploy uses: test-credentials.ps1 and deploy-template.ps1.
package powershell

import (
	"path/filepath"
	"strings"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/process"
)

// Scripts locates the scripts and the shell that runs them
type Scripts struct {
	// Shell is the PowerShell executable
	Shell string
	// Dir holds test-credentials.ps1 and deploy-template.ps1
	Dir string
}

func (s Scripts) shell() string {
	if s.Shell == "" {
		return constants.DefaultShell
	}
	return s.Shell
}

// CredentialScript is the full path of the probe
func (s Scripts) CredentialScript() string {
	return filepath.Join(s.Dir, constants.CredentialScript)
}

// DeployScript is the full path of the deploy script
func (s Scripts) DeployScript() string {
	return filepath.Join(s.Dir, constants.DeployScript)
}

// ProbeCommand asks the probe whether username can read and write testPath on server
func (s Scripts) ProbeCommand(server, username string, password model.Password, testPath string) (process.Command, error) {
	encoded, err := EncodePassword(password)
	if err != nil {
		return process.Command{}, err
	}
	return process.Command{
		Name: s.shell(),
		Args: []string{
			"-ExecutionPolicy", "Bypass",
			"-File", s.CredentialScript(),
			"-Server", server,
			"-Username", username,
			"-PasswordBase64", encoded,
			"-TestPath", testPath,
		},
		Secrets: []string{encoded},
	}, nil
}

// DeployTarget is everything the deploy script needs besides the credentials
type DeployTarget struct {
	Settings model.DeploySettings
	// NewFilesPath is the absolute build output directory
	NewFilesPath string
	// Dir is the working directory of the script
	Dir string
}

// DeployCommand builds the deploy script invocation. The exclusion lists are only
// passed when they hold at least one token.
func (s Scripts) DeployCommand(username string, password model.Password, t DeployTarget) (process.Command, error) {
	encoded, err := EncodePassword(password)
	if err != nil {
		return process.Command{}, err
	}
	args := []string{
		"-ExecutionPolicy", "Bypass",
		"-File", s.DeployScript(),
		"-Username", username,
		"-PasswordBase64", encoded,
		"-Server", t.Settings.Server,
		"-AppPoolName", t.Settings.PoolName,
		"-AppFolderLocation", t.Settings.AppFolderLocation,
		"-NewFilesPath", t.NewFilesPath,
		"-BackupFolder", t.Settings.BackupFolderLocation,
	}
	if list := joinTokens(t.Settings.ExcludeFromCleanup); list != "" {
		args = append(args, "-ExcludeFromCleanup", list)
	}
	if list := joinTokens(t.Settings.ExcludeFromCopy); list != "" {
		args = append(args, "-ExcludeFromCopy", list)
	}
	return process.Command{
		Name:    s.shell(),
		Args:    args,
		Dir:     t.Dir,
		Secrets: []string{encoded},
	}, nil
}

func joinTokens(tokens []string) string {
	trimmed := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return strings.Join(trimmed, ",")
}
