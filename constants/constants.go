package constants

import "time"

const (
	// Version is the application version reported by `webdeploy version` and `webdeploy --version`
	Version = "0.2"

	// EnvPrefix is the prefix viper uses when binding environment variables
	EnvPrefix = "WEBDEPLOY"
	// PasswordEnvVar holds the deploy password for non-interactive runs
	PasswordEnvVar = "WEBDEPLOY_PASSWORD"
	// UsernameEnvVar holds the deploy username for non-interactive runs
	UsernameEnvVar = "WEBDEPLOY_USERNAME"

	// DefaultSettingsFile is the deploy settings file at the workspace root
	DefaultSettingsFile = "deploy.config.json"
	// PackageFile is read for the application name
	PackageFile = "package.json"

	// CredentialScript is the probe invoked by the credential check
	CredentialScript = "test-credentials.ps1"
	// DeployScript copies the build output to the application server
	DeployScript = "deploy-template.ps1"
	// DefaultShell runs both scripts
	DefaultShell = "powershell.exe"
	// DefaultBuildCommand is extended with --configuration=<name>
	DefaultBuildCommand = "npm run build --"

	// ProbeSuccess starts the probe output when the credentials work
	ProbeSuccess = "SUCCESS"
	// ProbeFailed prefixes the reason when they don't
	ProbeFailed = "FAILED:"

	// CredentialTimeout bounds the credential probe
	CredentialTimeout = 30 * time.Second
	// MaxBuildOutput is the combined output kept from a build
	MaxBuildOutput = 10 * 1024 * 1024
)
