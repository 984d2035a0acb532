package build

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/process"
)

type fakeRunner struct {
	res   model.ProcessResult
	err   error
	cmd   process.Command
	limit int
}

func (f *fakeRunner) Run(ctx context.Context, cmd process.Command, limit int) (model.ProcessResult, error) {
	f.cmd, f.limit = cmd, limit
	return f.res, f.err
}

func (f *fakeRunner) Stream(ctx context.Context, cmd process.Command, onLine func(string)) (model.ProcessResult, error) {
	panic("not used")
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		wantName string
		wantArgs []string
		wantErr  bool
	}{
		{"default", "", "npm", []string{"run", "build", "--", "--configuration=production"}, false},
		{"custom", "ng build --base-href '/my app/'", "ng", []string{"build", "--base-href", "/my app/", "--configuration=production"}, false},
		{"unbalanced quote", "ng build 'oops", "", nil, true},
		{"blank", "   ", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(nil, tt.command).Command("production", "/work/shop")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Name != tt.wantName || !reflect.DeepEqual(got.Args, tt.wantArgs) || got.Dir != "/work/shop" {
				t.Errorf("Command() = %v %v in %v", got.Name, got.Args, got.Dir)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		res     model.ProcessResult
		err     error
		wantErr error
	}{
		{"success", model.ProcessResult{ExitCode: model.ExitCode(0), CombinedOutput: "done"}, nil, nil},
		{"non-zero exit", model.ProcessResult{ExitCode: model.ExitCode(2), CombinedOutput: "error TS2304"}, nil, model.ErrBuildFailed},
		{"cannot start", model.ProcessResult{}, model.ErrProcessFailure, model.ErrProcessFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{res: tt.res, err: tt.err}
			got, err := New(runner, "").Build(context.Background(), "production", "/work/shop")
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if got.CombinedOutput != tt.res.CombinedOutput {
				t.Errorf("Build() output = %q", got.CombinedOutput)
			}
			if runner.limit < 10*1024*1024 {
				t.Errorf("Build() output limit = %d, want at least 10MiB", runner.limit)
			}
		})
	}
}

func TestBuildFailureIsProcessFailure(t *testing.T) {
	runner := &fakeRunner{res: model.ProcessResult{ExitCode: model.ExitCode(1)}}
	_, err := New(runner, "").Build(context.Background(), "production", "/work/shop")
	if !errors.Is(err, model.ErrProcessFailure) {
		t.Errorf("Build() error = %v, want it to be a process failure", err)
	}
}
