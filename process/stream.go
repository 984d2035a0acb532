package process

import (
	"bufio"
	"context"
	"io"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/model"
)

const maxLine = 1024 * 1024

// Stream implements Runner. Both pipes are drained concurrently so a chatty
// command never blocks on a full pipe; lines reach onLine one at a time in the
// order they were read.
func (ExecRunner) Stream(ctx context.Context, c Command, onLine func(string)) (model.ProcessResult, error) {
	log.WithField("command", c.String()).Debug("streaming")
	cmd := command(ctx, c)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return model.ProcessResult{}, errors.Wrapf(model.ErrProcessFailure, "%s: %v", c.Name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return model.ProcessResult{}, errors.Wrapf(model.ErrProcessFailure, "%s: %v", c.Name, err)
	}
	if err = cmd.Start(); err != nil {
		return model.ProcessResult{}, errors.Wrapf(model.ErrProcessFailure, "starting %s: %v", c.Name, err)
	}

	lines := make(chan outputLine)
	var g errgroup.Group
	g.Go(func() error { return scan(stdout, true, lines) })
	g.Go(func() error { return scan(stderr, false, lines) })
	go func() {
		if err := g.Wait(); err != nil {
			log.WithError(err).Warn("reading command output")
		}
		close(lines)
	}()

	combined := &limitedBuffer{limit: constants.MaxBuildOutput}
	out := &limitedBuffer{limit: constants.MaxBuildOutput}
	for line := range lines {
		io.WriteString(combined, line.text+"\n")
		if line.stdout {
			io.WriteString(out, line.text+"\n")
		}
		if onLine != nil {
			onLine(line.text)
		}
	}

	err = cmd.Wait()
	res := model.ProcessResult{CombinedOutput: combined.String(), Stdout: out.String()}
	return finish(ctx, c, res, err)
}

type outputLine struct {
	text   string
	stdout bool
}

func scan(r io.Reader, stdout bool, lines chan<- outputLine) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLine)
	for s.Scan() {
		lines <- outputLine{text: strings.TrimRight(s.Text(), "\r"), stdout: stdout}
	}
	if err := s.Err(); err != nil {
		// keep the pipe empty so the command can finish
		io.Copy(ioutil.Discard, r)
		return err
	}
	return nil
}
