// Package build runs the project's build for one configuration.
package build

import (
	"context"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/process"
)

// Builder runs the build command, by default `npm run build -- --configuration=<name>`
type Builder struct {
	runner  process.Runner
	command string
}

// New returns a Builder. An empty command means constants.DefaultBuildCommand.
func New(runner process.Runner, command string) *Builder {
	if command == "" {
		command = constants.DefaultBuildCommand
	}
	return &Builder{runner: runner, command: command}
}

// Command is the invocation for configurationName in workspaceRoot
func (b *Builder) Command(configurationName, workspaceRoot string) (process.Command, error) {
	words, err := shellwords.Parse(b.command)
	if err != nil {
		return process.Command{}, errors.Wrapf(err, "parsing build command %q", b.command)
	}
	if len(words) == 0 {
		return process.Command{}, errors.New("build command is empty")
	}
	args := append(words[1:], "--configuration="+configurationName)
	return process.Command{Name: words[0], Args: args, Dir: workspaceRoot}, nil
}

// Build blocks until the build has exited. A non-zero exit returns the result
// together with model.ErrBuildFailed.
func (b *Builder) Build(ctx context.Context, configurationName, workspaceRoot string) (model.ProcessResult, error) {
	cmd, err := b.Command(configurationName, workspaceRoot)
	if err != nil {
		return model.ProcessResult{}, err
	}
	logger := log.WithField("configuration", configurationName)
	logger.WithField("command", cmd.String()).Info("building")

	res, err := b.runner.Run(ctx, cmd, constants.MaxBuildOutput)
	if err != nil {
		return res, errors.Wrap(err, "running build")
	}
	if !res.Succeeded() {
		logger.WithField("exitCode", res.ExitCodeString()).Error("build failed")
		return res, &model.ExitError{Action: "Build", Result: res, Kind: model.ErrBuildFailed}
	}
	return res, nil
}
