package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestPasswordRedaction(t *testing.T) {
	p := NewPassword("hunter2")
	tests := []struct {
		name string
		got  string
	}{
		{"%v", fmt.Sprintf("%v", p)},
		{"%s", fmt.Sprintf("%s", p)},
		{"%+v", fmt.Sprintf("%+v", p)},
		{"%#v", fmt.Sprintf("%#v", p)},
		{"struct %+v", fmt.Sprintf("%+v", RunRequest{Username: "u", Password: p})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == "" || strings.Contains(tt.got, "hunter2") {
				t.Errorf("formatted password = %q", tt.got)
			}
		})
	}
	if p.Reveal() != "hunter2" {
		t.Errorf("Reveal() = %q", p.Reveal())
	}
}

func TestPasswordJSON(t *testing.T) {
	b, err := json.Marshal(RunRequest{Password: NewPassword("hunter2")})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "hunter2") {
		t.Errorf("json = %s", b)
	}
}

func TestPasswordLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	logger.WithField("password", NewPassword("hunter2")).Debug("run")
	line, err := hook.LastEntry().String()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(line, "hunter2") {
		t.Errorf("log line = %q", line)
	}
}

func TestPasswordEmpty(t *testing.T) {
	if !(Password{}).Empty() || NewPassword(" ").Empty() {
		t.Error("Empty() only holds for the zero password")
	}
}

func TestProcessResult(t *testing.T) {
	tests := []struct {
		name      string
		code      *int
		succeeded bool
		str       string
	}{
		{"zero", ExitCode(0), true, "0"},
		{"non-zero", ExitCode(3), false, "3"},
		{"absent", nil, true, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ProcessResult{ExitCode: tt.code}
			if got := r.Succeeded(); got != tt.succeeded {
				t.Errorf("Succeeded() = %v, want %v", got, tt.succeeded)
			}
			if got := r.ExitCodeString(); got != tt.str {
				t.Errorf("ExitCodeString() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	err := error(&ExitError{Action: "Deployment", Result: ProcessResult{ExitCode: ExitCode(1)}, Kind: ErrProcessFailure})
	if got, want := err.Error(), "Deployment failed with exit code 1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrProcessFailure) {
		t.Error("ExitError should unwrap to its Kind")
	}
	build := error(&ExitError{Action: "Build", Result: ProcessResult{ExitCode: ExitCode(2)}, Kind: ErrBuildFailed})
	if !errors.Is(build, ErrProcessFailure) {
		t.Error("a build failure is a process failure")
	}
}

func TestRunOutcome(t *testing.T) {
	tests := []struct {
		name string
		o    RunOutcome
		want string
	}{
		{"success", Success(), "succeeded"},
		{"failure", Failed(StageBuild, "Build failed with exit code 2"), "failed at Build: Build failed with exit code 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
	if f := Failed(StageDeploy, "x"); f.Succeeded() {
		t.Error("failed outcome reports success")
	}
}
