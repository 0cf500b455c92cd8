package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// CommandResult is the outcome of an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Err converts a non-zero exit into an error carrying stderr.
func (r CommandResult) Err(name string) error {
	if r.Success() {
		return nil
	}
	msg := strings.TrimSpace(r.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(r.Stdout)
	}
	if msg == "" {
		return fmt.Errorf("%s exited with code %d", name, r.ExitCode)
	}
	return fmt.Errorf("%s exited with code %d: %s", name, r.ExitCode, msg)
}

// CommandRunner runs a command in dir. A non-zero exit is reported through
// CommandResult, not the error; the error is for commands that could not
// start at all.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs real processes with os/exec.
type ExecRunner struct{}

// NewExecRunner returns an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args in dir. A name containing a path separator,
// such as bin/rails, is resolved against dir instead of PATH.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (CommandResult, error) {
	if filepath.Base(name) == name {
		if _, err := exec.LookPath(name); err != nil {
			return CommandResult{}, fmt.Errorf("%s is required but not found in PATH", name)
		}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("running %s: %w", name, err)
	}
	return result, nil
}

// CommandCall records one invocation seen by a FakeRunner.
type CommandCall struct {
	Dir  string
	Name string
	Args []string
}

// Line returns the command line as a single string.
func (c CommandCall) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner records commands and returns scripted results. Commands with
// no scripted result succeed with empty output.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []CommandCall
	results map[string]CommandResult
	errs    map[string]error
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		results: make(map[string]CommandResult),
		errs:    make(map[string]error),
	}
}

// SetResult scripts the result for a full command line, e.g. "git init".
func (f *FakeRunner) SetResult(line string, result CommandResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[line] = result
}

// SetError scripts a start failure for a full command line.
func (f *FakeRunner) SetError(line string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[line] = err
}

// Run records the call.
func (f *FakeRunner) Run(_ context.Context, dir, name string, args ...string) (CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := CommandCall{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	f.calls = append(f.calls, call)
	if err, ok := f.errs[call.Line()]; ok {
		return CommandResult{}, err
	}
	return f.results[call.Line()], nil
}

// Calls returns the recorded calls in order.
func (f *FakeRunner) Calls() []CommandCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]CommandCall, len(f.calls))
	copy(out, f.calls)
	return out
}

var (
	_ CommandRunner = ExecRunner{}
	_ CommandRunner = (*FakeRunner)(nil)
)
