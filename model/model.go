package model

import "fmt"

// The RunRequest type carries everything a single deploy run needs from the user.
// It is built once per run and not modified afterwards.
type RunRequest struct {
	// Username is the account used against the application server
	Username string
	// Password for Username, never logged or persisted
	Password Password
	// Configuration is the build configuration / environment name, e.g. "production"
	Configuration string
	// WorkspaceRoot is the absolute path of the web application
	WorkspaceRoot string
	// AppName is the project name, used to locate dist/<AppName>
	AppName string
}

// DeploySettings is the content of deploy.config.json or deploy.<env>.config.json
type DeploySettings struct {
	Server                   string   `mapstructure:"server" json:"server" yaml:"server"`
	PoolName                 string   `mapstructure:"poolName" json:"poolName" yaml:"poolName"`
	AppFolderLocation        string   `mapstructure:"appFolderLocation" json:"appFolderLocation" yaml:"appFolderLocation"`
	BackupFolderLocation     string   `mapstructure:"backupFolderLocation" json:"backupFolderLocation" yaml:"backupFolderLocation"`
	ExcludeFromCleanup       []string `mapstructure:"excludeFromCleanup" json:"excludeFromCleanup" yaml:"excludeFromCleanup"`
	ExcludeFromCopy          []string `mapstructure:"excludeFromCopy" json:"excludeFromCopy" yaml:"excludeFromCopy"`
	JSONConfigurationEnabled bool     `mapstructure:"jsonConfiguration" json:"jsonConfiguration" yaml:"jsonConfiguration"`
	DefaultConfigurationName string   `mapstructure:"defaultConfiguration" json:"defaultConfiguration" yaml:"defaultConfiguration"`
}

// ProcessResult is what every external invocation hands back.
// A nil ExitCode means the process ended without reporting one.
type ProcessResult struct {
	ExitCode       *int
	CombinedOutput string
	// Stdout is the standard output alone
	Stdout string
}

// Succeeded reports whether the exit code is 0 or absent.
//
// An absent code is what a process killed by a signal produces, so this can hide an
// abnormal termination. It is kept because the deploy script relies on it.
func (r ProcessResult) Succeeded() bool {
	return r.ExitCode == nil || *r.ExitCode == 0
}

// ExitCodeString renders the exit code the way it is shown in the run log
func (r ProcessResult) ExitCodeString() string {
	if r.ExitCode == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *r.ExitCode)
}

// ExitCode is a convenience for building a ProcessResult with a known code
func ExitCode(code int) *int {
	return &code
}
