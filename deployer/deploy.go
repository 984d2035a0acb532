// Package deployer hands the build output to the deploy script, which backs up the
// application folder, replaces its content and recycles the application pool.
package deployer

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/powershell"
	"github.com/redbadger/webdeploy/process"
)

// Credentials for the application server
type Credentials struct {
	Username string
	Password model.Password
}

// Deployer runs deploy-template.ps1
type Deployer struct {
	runner  process.Runner
	scripts powershell.Scripts
}

// New returns a Deployer
func New(runner process.Runner, scripts powershell.Scripts) *Deployer {
	return &Deployer{runner: runner, scripts: scripts}
}

// Deploy copies buildOutputDir (absolute) to the server described by settings.
// Every line the script prints goes to onOutputLine as soon as it is read. The run
// counts as successful when the script exits 0 or without an exit code.
func (d *Deployer) Deploy(
	ctx context.Context, settings model.DeploySettings, creds Credentials,
	buildOutputDir, workDir string, onOutputLine func(string),
) (model.ProcessResult, error) {
	cmd, err := d.scripts.DeployCommand(creds.Username, creds.Password, powershell.DeployTarget{
		Settings:     settings,
		NewFilesPath: buildOutputDir,
		Dir:          workDir,
	})
	if err != nil {
		return model.ProcessResult{}, err
	}

	logger := log.WithFields(log.Fields{
		"server": settings.Server,
		"pool":   settings.PoolName,
		"source": buildOutputDir,
	})
	logger.WithField("command", cmd.String()).Debug("deploy command")
	logger.Info("deploying")

	emit := func(line string) {
		if onOutputLine != nil {
			onOutputLine(line)
		}
	}

	res, err := d.runner.Stream(ctx, cmd, emit)
	if err != nil {
		emit(fmt.Sprintf("Process Error: %v", err))
		return res, errors.Wrap(err, "running deploy script")
	}

	emit(fmt.Sprintf("--- Deployment Process Finished (Exit Code: %s) ---", res.ExitCodeString()))
	if !res.Succeeded() {
		logger.WithField("exitCode", res.ExitCodeString()).Error("deployment failed")
		return res, &model.ExitError{Action: "Deployment", Result: res, Kind: model.ErrProcessFailure}
	}
	if res.ExitCode == nil {
		logger.Warn("deploy script ended without an exit code, treating it as success")
	}
	return res, nil
}
