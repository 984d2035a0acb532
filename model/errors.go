package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when an expected file or directory is missing
	ErrNotFound = errors.New("not found")
	// ErrCredentialFailure is returned when the probe rejects the credentials
	ErrCredentialFailure = errors.New("credential check failed")
	// ErrProcessFailure is returned when an external command exits non-zero or cannot start
	ErrProcessFailure = errors.New("process failed")
	// ErrTimeout is returned when the credential probe runs past its bound
	ErrTimeout = errors.New("timed out")
	// ErrBuildFailed is a ProcessFailure of the build command
	ErrBuildFailed = errors.Wrap(ErrProcessFailure, "build failed")
	// ErrRunInProgress is returned when a pipeline is asked to run while already running
	ErrRunInProgress = errors.New("a deploy run is already in progress")
)

// ExitError reports an external command that ran but did not exit successfully
type ExitError struct {
	// Action names what the command was doing, e.g. "Deployment"
	Action string
	Result ProcessResult
	// Kind is the sentinel the error unwraps to
	Kind error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s failed with exit code %s", e.Action, e.Result.ExitCodeString())
}

// Unwrap allows errors.Is against Kind
func (e *ExitError) Unwrap() error {
	return e.Kind
}
