// Package credentials checks that a username and password can reach the
// application folder on the target server before anything is built.
package credentials

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/powershell"
	"github.com/redbadger/webdeploy/process"
)

const (
	verifiedMessage = "Credentials verified successfully"
	probeOutputCap  = 64 * 1024
)

// Verdict is the answer of the probe
type Verdict struct {
	Success bool
	Message string
	// Err classifies a failure: model.ErrCredentialFailure when the probe said no,
	// model.ErrTimeout or model.ErrProcessFailure when it could not answer
	Err error
}

// Verifier runs the credential probe
type Verifier struct {
	runner  process.Runner
	scripts powershell.Scripts
	timeout time.Duration
}

// New returns a Verifier with the standard 30 second bound
func New(runner process.Runner, scripts powershell.Scripts) *Verifier {
	return &Verifier{runner: runner, scripts: scripts, timeout: constants.CredentialTimeout}
}

// Verify asks the probe whether username can read and write testPath on server
func (v *Verifier) Verify(ctx context.Context, server, username string, password model.Password, testPath string) Verdict {
	cmd, err := v.scripts.ProbeCommand(server, username, password, testPath)
	if err != nil {
		return failed(err.Error(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	logger := log.WithFields(log.Fields{"server": server, "username": username})
	res, err := v.runner.Run(ctx, cmd, probeOutputCap)
	if err == nil && (res.ExitCode == nil || *res.ExitCode != 0) {
		err = &model.ExitError{Action: "Credential probe", Result: res, Kind: model.ErrProcessFailure}
	}
	if err != nil {
		logger.WithError(err).Info("credential probe did not complete")
		if out, ok := reported(res); ok {
			return failed(failureReason(out), model.ErrCredentialFailure)
		}
		if errors.Is(err, model.ErrTimeout) {
			return failed("Connection failed: timed out after "+v.timeout.String(), err)
		}
		return failed("Connection failed: "+err.Error(), err)
	}
	return interpret(res)
}

// interpret reads the standard output of a probe that exited 0. The probe prints
// SUCCESS or "FAILED: <reason>"; whatever it wrote to stderr is ignored.
func interpret(res model.ProcessResult) Verdict {
	out := strings.TrimSpace(res.Stdout)
	if strings.HasPrefix(out, constants.ProbeSuccess) {
		return Verdict{Success: true, Message: verifiedMessage}
	}
	return failed(failureReason(out), model.ErrCredentialFailure)
}

// reported returns the output of a failed probe when it carries a FAILED: reason,
// looking at stdout first
func reported(res model.ProcessResult) (string, bool) {
	for _, out := range []string{res.Stdout, res.CombinedOutput} {
		if strings.Contains(out, constants.ProbeFailed) {
			return out, true
		}
	}
	return "", false
}

func failureReason(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return "credential probe printed nothing"
	}
	if i := strings.Index(out, constants.ProbeFailed); i >= 0 {
		out = out[i+len(constants.ProbeFailed):]
	}
	return strings.TrimSpace(out)
}

func failed(msg string, err error) Verdict {
	return Verdict{Success: false, Message: msg, Err: err}
}
