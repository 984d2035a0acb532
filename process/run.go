// Package process runs the external commands of a deploy: the build tool and the
// PowerShell scripts. Results always come back as a model.ProcessResult.
package process

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redbadger/webdeploy/model"
)

const (
	mask = "********"
	// waitDelay bounds how long output is still read after the command was killed
	waitDelay = 2 * time.Second
)

// Command describes one invocation
type Command struct {
	Name string
	Args []string
	// Dir is the working directory, the current one when empty
	Dir string
	// Secrets are masked whenever the command is printed or logged
	Secrets []string
}

// String renders the command line with secrets masked
func (c Command) String() string {
	line := strings.Join(append([]string{c.Name}, c.Args...), " ")
	for _, s := range c.Secrets {
		if s != "" {
			line = strings.Replace(line, s, mask, -1)
		}
	}
	return line
}

// Runner abstracts command execution so stages can be tested without processes
type Runner interface {
	// Run waits for the command to exit and returns at most limit bytes of its
	// combined stdout and stderr, and of its stdout alone
	Run(ctx context.Context, cmd Command, limit int) (model.ProcessResult, error)
	// Stream passes every line the command writes to stdout or stderr to onLine as
	// it arrives, then returns once the command has exited
	Stream(ctx context.Context, cmd Command, onLine func(string)) (model.ProcessResult, error)
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct{}

// Run implements Runner
func (ExecRunner) Run(ctx context.Context, c Command, limit int) (model.ProcessResult, error) {
	log.WithField("command", c.String()).Debug("running")
	cmd := command(ctx, c)
	out := &limitedBuffer{limit: limit}
	stdout := &limitedBuffer{limit: limit}
	cmd.Stdout = io.MultiWriter(out, stdout)
	cmd.Stderr = out

	err := cmd.Run()
	res := model.ProcessResult{CombinedOutput: out.String(), Stdout: stdout.String()}
	return finish(ctx, c, res, err)
}

func command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = os.Environ()
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	return cmd
}

// finish turns the error from Run or Wait into an exit code. A process that was
// killed by a signal has no exit code, unless ctx killed it: then the command
// failed with the context's error.
func finish(ctx context.Context, c Command, res model.ProcessResult, err error) (model.ProcessResult, error) {
	switch ctxErr := ctx.Err(); {
	case ctxErr == context.DeadlineExceeded:
		return res, errors.Wrapf(model.ErrTimeout, "%s", c.Name)
	case ctxErr != nil:
		return res, errors.Wrapf(ctxErr, "%s interrupted", c.Name)
	}
	if err == nil {
		res.ExitCode = model.ExitCode(0)
		return res, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if code := exitErr.ExitCode(); code >= 0 {
			res.ExitCode = model.ExitCode(code)
		}
		return res, nil
	}
	return res, errors.Wrapf(model.ErrProcessFailure, "%s: %v", c.Name, err)
}

// limitedBuffer keeps the first limit bytes written to it and drops the rest.
// stdout and stderr copy into it from separate goroutines.
type limitedBuffer struct {
	mu        sync.Mutex
	buf       strings.Builder
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = len(p) > 0 || b.truncated
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.truncated {
		return b.buf.String() + "\n[output truncated]"
	}
	return b.buf.String()
}
