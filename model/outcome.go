package model

import "fmt"

// Stage is one of the four pipeline steps
type Stage string

const (
	StageCredentialCheck Stage = "CredentialCheck"
	StageBuild           Stage = "Build"
	StageConfigStage     Stage = "ConfigStage"
	StageDeploy          Stage = "Deploy"
)

// Status of a finished run
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// RunOutcome is the terminal result of a pipeline run.
// Stage and Reason are only set when Status is StatusFailed.
type RunOutcome struct {
	Status Status
	Stage  Stage
	Reason string
}

// Success is the outcome of a run in which every stage passed
func Success() RunOutcome {
	return RunOutcome{Status: StatusSucceeded}
}

// Failed is the outcome of a run that stopped at stage
func Failed(stage Stage, reason string) RunOutcome {
	return RunOutcome{Status: StatusFailed, Stage: stage, Reason: reason}
}

// Succeeded reports whether the run completed
func (o RunOutcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

func (o RunOutcome) String() string {
	if o.Succeeded() {
		return string(StatusSucceeded)
	}
	return fmt.Sprintf("%s at %s: %s", o.Status, o.Stage, o.Reason)
}
