package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/pipeline"
)

var (
	consoleHeader  = color.New(color.FgCyan, color.Bold).SprintFunc()
	consoleSuccess = color.New(color.FgGreen).SprintFunc()
	consoleFailure = color.New(color.FgRed, color.Bold).SprintFunc()
	consoleWarning = color.New(color.FgYellow).SprintFunc()
)

// console is the run log on a terminal. It is both the pipeline's Sink and a
// Listener that prints the verdict of the run.
type console struct {
	pipeline.NopListener
	mu      sync.Mutex
	out     io.Writer
	written bool
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) AppendLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = true
	switch {
	case strings.HasPrefix(line, "=== ") && strings.Contains(line, "Failed"):
		line = consoleFailure(line)
	case strings.HasPrefix(line, "=== "):
		line = consoleHeader(line)
	case strings.HasPrefix(line, "Warning: "):
		line = consoleWarning(line)
	}
	fmt.Fprintln(c.out, line)
}

// Clear can't wipe a terminal, so it separates the new run from earlier output
func (c *console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.written {
		fmt.Fprintln(c.out, strings.Repeat("-", 60))
	}
}

func (c *console) StageFailed(stage model.Stage, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n%s %s\n", consoleFailure(stageTitle(stage)+" failed:"), reason)
}

func (c *console) RunSucceeded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n%s\n", consoleSuccess("Deployment completed successfully!"))
}

func stageTitle(stage model.Stage) string {
	switch stage {
	case model.StageCredentialCheck:
		return "Credential check"
	case model.StageBuild:
		return "Build"
	case model.StageConfigStage:
		return "Config preparation"
	case model.StageDeploy:
		return "Deployment"
	}
	return string(stage)
}
