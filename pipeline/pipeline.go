// Package pipeline runs a deploy: credential check, build, configuration staging and
// the remote deploy, strictly in that order. The first stage that fails ends the run;
// nothing is retried and no later stage is started.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/credentials"
	"github.com/redbadger/webdeploy/deployer"
	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/stager"
)

// Settings resolves the files and directories of a workspace
type Settings interface {
	GoverningSettings(configurationName string) (string, model.DeploySettings, error)
	BuildOutputDir(appName string) (string, error)
	Abs(rel string) string
}

// Verifier checks credentials against the target server
type Verifier interface {
	Verify(ctx context.Context, server, username string, password model.Password, testPath string) credentials.Verdict
}

// Builder builds the workspace for a configuration
type Builder interface {
	Build(ctx context.Context, configurationName, workspaceRoot string) (model.ProcessResult, error)
}

// Stager puts the environment configuration into the build output
type Stager interface {
	Stage(appName, configurationName string) (stager.Result, error)
}

// Deployer copies the build output to the server
type Deployer interface {
	Deploy(ctx context.Context, settings model.DeploySettings, creds deployer.Credentials,
		buildOutputDir, workDir string, onOutputLine func(string)) (model.ProcessResult, error)
}

// Stages are the collaborators of a Pipeline
type Stages struct {
	Settings Settings
	Verifier Verifier
	Builder  Builder
	Stager   Stager
	Deployer Deployer
}

// Pipeline runs one deploy at a time
type Pipeline struct {
	Stages
	sink      Sink
	listeners []Listener

	mu      sync.Mutex
	state   State
	running bool
}

// New returns an idle Pipeline writing its log to sink
func New(stages Stages, sink Sink, listeners ...Listener) *Pipeline {
	return &Pipeline{Stages: stages, sink: sink, listeners: listeners, state: Idle}
}

// run holds everything scoped to a single Run call
type run struct {
	req          model.RunRequest
	settingsFile string
	settings     model.DeploySettings
	logger       *log.Entry
}

// Run deploys req. Stage failures are reported in the outcome; err is only set when
// the run could not start: another run is in progress or no settings file could be
// loaded.
func (p *Pipeline) Run(ctx context.Context, req model.RunRequest) (outcome model.RunOutcome, err error) {
	if err = p.acquire(); err != nil {
		return outcome, err
	}
	defer p.release()

	started := time.Now()
	r := &run{
		req: req,
		logger: log.WithFields(log.Fields{
			"configuration": req.Configuration,
			"username":      req.Username,
		}),
	}

	p.sink.Clear()
	r.settingsFile, r.settings, err = p.Settings.GoverningSettings(req.Configuration)
	if err != nil {
		return outcome, errors.Wrap(err, "loading deploy settings")
	}
	if r.settingsFile == constants.DefaultSettingsFile {
		p.sink.AppendLine("Using default config: " + r.settingsFile)
	} else {
		p.sink.AppendLine("Using environment-specific config: " + r.settingsFile)
	}
	p.sink.AppendLine("=== Deploy Configuration ===")
	p.sink.AppendLine("Config File: " + r.settingsFile)
	r.logger = r.logger.WithFields(log.Fields{"settings": r.settingsFile, "server": r.settings.Server})

	outcome = p.execute(ctx, r)

	summary := Summary{
		Configuration: req.Configuration,
		SettingsFile:  r.settingsFile,
		Username:      req.Username,
		Server:        r.settings.Server,
		AppName:       req.AppName,
		Outcome:       outcome,
		Started:       started,
		Finished:      time.Now(),
	}
	for _, l := range p.listeners {
		l.RunFinished(summary)
	}
	return outcome, nil
}

func (p *Pipeline) execute(ctx context.Context, r *run) model.RunOutcome {
	steps := []struct {
		state State
		stage model.Stage
		fn    func(context.Context, *run) (string, bool)
	}{
		{VerifyingCredentials, model.StageCredentialCheck, p.verify},
		{Building, model.StageBuild, p.build},
		{StagingConfig, model.StageConfigStage, p.stage},
		{Deploying, model.StageDeploy, p.deploy},
	}
	if err := ctx.Err(); err != nil {
		return p.fail(r, model.StageCredentialCheck, interrupted(err))
	}
	for _, step := range steps {
		if err := p.transition(step.state); err != nil {
			return p.fail(r, step.stage, err.Error())
		}
		r.logger.WithField("stage", step.stage).Info("stage started")
		for _, l := range p.listeners {
			l.StageStarted(step.stage)
		}
		if reason, ok := step.fn(ctx, r); !ok {
			return p.fail(r, step.stage, reason)
		}
		// a stage that was interrupted never counts as passed
		if err := ctx.Err(); err != nil {
			return p.fail(r, step.stage, interrupted(err))
		}
	}

	if err := p.transition(Succeeded); err != nil {
		return p.fail(r, model.StageDeploy, err.Error())
	}
	r.logger.Info("deploy succeeded")
	for _, l := range p.listeners {
		l.RunSucceeded()
	}
	return model.Success()
}

func interrupted(err error) string {
	return "Run interrupted: " + err.Error()
}

func (p *Pipeline) fail(r *run, stage model.Stage, reason string) model.RunOutcome {
	p.mu.Lock()
	p.state = Failed
	p.mu.Unlock()

	r.logger.WithFields(log.Fields{"stage": stage, "reason": reason}).Error("deploy failed")
	for _, l := range p.listeners {
		l.StageFailed(stage, reason)
	}
	return model.Failed(stage, reason)
}

func (p *Pipeline) verify(ctx context.Context, r *run) (string, bool) {
	p.section("Testing Credentials")
	v := p.Verifier.Verify(ctx, r.settings.Server, r.req.Username, r.req.Password, r.settings.AppFolderLocation)
	if !v.Success {
		p.sink.AppendLine("Credential test failed: " + v.Message)
		return v.Message, false
	}
	p.sink.AppendLine("Credentials verified successfully")
	return "", true
}

func (p *Pipeline) build(ctx context.Context, r *run) (string, bool) {
	p.section("Building Project")
	res, err := p.Builder.Build(ctx, r.req.Configuration, r.req.WorkspaceRoot)
	p.output(res.CombinedOutput)
	if err != nil {
		p.section("Build Failed")
		p.sink.AppendLine(err.Error())
		return err.Error(), false
	}
	p.section("Build Completed")
	return "", true
}

// stage is a no-op unless the settings enable JSON configuration
func (p *Pipeline) stage(ctx context.Context, r *run) (string, bool) {
	if !r.settings.JSONConfigurationEnabled {
		r.logger.Debug("json configuration disabled, skipping config preparation")
		return "", true
	}
	res, err := p.Stager.Stage(r.req.AppName, r.req.Configuration)
	if err != nil {
		p.section("Config Preparation Failed")
		p.sink.AppendLine(err.Error())
		return err.Error(), false
	}
	p.sink.AppendLine("Overwritten dist config with configuration." + r.req.Configuration + ".json")
	for _, w := range res.Warnings {
		p.sink.AppendLine("Warning: " + w.Error())
	}
	p.section("Config Preparation Completed")
	return "", true
}

func (p *Pipeline) deploy(ctx context.Context, r *run) (string, bool) {
	p.section("Deploying Project")
	dist, err := p.Settings.BuildOutputDir(r.req.AppName)
	if err != nil {
		p.sink.AppendLine(err.Error())
		return err.Error(), false
	}
	creds := deployer.Credentials{Username: r.req.Username, Password: r.req.Password}
	_, err = p.Deployer.Deploy(ctx, r.settings, creds, p.Settings.Abs(dist), r.req.WorkspaceRoot, p.line)
	if err != nil {
		p.section("Deployment Failed")
		p.sink.AppendLine(err.Error())
		return err.Error(), false
	}
	p.section("Deployment Completed Successfully")
	return "", true
}

func (p *Pipeline) section(title string) {
	p.sink.AppendLine("")
	p.sink.AppendLine("=== " + title + " ===")
}

func (p *Pipeline) line(text string) {
	p.sink.AppendLine(text)
	for _, l := range p.listeners {
		l.OutputLine(text)
	}
}

func (p *Pipeline) output(out string) {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return
	}
	for _, text := range strings.Split(out, "\n") {
		p.line(strings.TrimRight(text, "\r"))
	}
}

func (p *Pipeline) acquire() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return model.ErrRunInProgress
	}
	p.running = true
	p.state = Idle
	return nil
}

func (p *Pipeline) release() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}
