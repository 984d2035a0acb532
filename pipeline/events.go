package pipeline

import (
	"time"

	"github.com/redbadger/webdeploy/model"
)

// Sink is the run log. It only ever grows, except when a new run clears it.
type Sink interface {
	AppendLine(line string)
	Clear()
}

// Summary describes a finished run. It never holds the password.
type Summary struct {
	Configuration string
	SettingsFile  string
	Username      string
	Server        string
	AppName       string
	Outcome       model.RunOutcome
	Started       time.Time
	Finished      time.Time
}

// Listener is told what a run is doing. Calls are made from the goroutine that
// called Run, in order.
type Listener interface {
	StageStarted(stage model.Stage)
	OutputLine(line string)
	StageFailed(stage model.Stage, reason string)
	RunSucceeded()
	RunFinished(summary Summary)
}

// NopListener can be embedded to implement only some of Listener
type NopListener struct{}

func (NopListener) StageStarted(model.Stage) {}
func (NopListener) OutputLine(string) {}
func (NopListener) StageFailed(model.Stage, string) {}
func (NopListener) RunSucceeded() {}
func (NopListener) RunFinished(Summary) {}
