package platform

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCommandResult_Err(t *testing.T) {
	if err := (CommandResult{}).Err("git"); err != nil {
		t.Errorf("Err() on success = %v, want nil", err)
	}

	err := CommandResult{ExitCode: 128, Stderr: "fatal: not a git repository\n"}.Err("git")
	if err == nil || err.Error() != "git exited with code 128: fatal: not a git repository" {
		t.Errorf("Err() = %v", err)
	}

	err = CommandResult{ExitCode: 2}.Err("bundle")
	if err == nil || err.Error() != "bundle exited with code 2" {
		t.Errorf("Err() = %v", err)
	}
}

func TestExecRunner_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses pwd")
	}
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	result, err := NewExecRunner().Run(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Success() {
		t.Fatalf("Run() exit code = %d", result.ExitCode)
	}
	if got := strings.TrimSpace(result.Stdout); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	result, err := NewExecRunner().Run(context.Background(), t.TempDir(), "false")
	if err != nil {
		t.Fatalf("Run() error = %v, want exit code in result", err)
	}
	if result.Success() {
		t.Error("Run() should report failure for 'false'")
	}
}

func TestExecRunner_ProjectRelativeCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho \"rails $1\"\n"
	if err := os.WriteFile(filepath.Join(dir, "bin", "rails"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := NewExecRunner().Run(context.Background(), dir, "bin/rails", "db:create")
	if err != nil {
		t.Fatalf("Run(bin/rails) error = %v", err)
	}
	if !result.Success() {
		t.Fatalf("Run(bin/rails) exit code = %d, stderr = %q", result.ExitCode, result.Stderr)
	}
	if got := strings.TrimSpace(result.Stdout); got != "rails db:create" {
		t.Errorf("stdout = %q, want %q", got, "rails db:create")
	}
}

func TestExecRunner_ProjectRelativeCommandMissing(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), t.TempDir(), "bin/rails", "db:create")
	if err == nil {
		t.Fatal("expected error for missing bin/rails")
	}
	if strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("project-relative command should not be looked up in PATH: %v", err)
	}
}

func TestExecRunner_NotFound(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), t.TempDir(), "nonexistent-command-12345")
	if err == nil {
		t.Fatal("expected error for missing command")
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeRunner(t *testing.T) {
	f := NewFakeRunner()
	f.SetResult("git init", CommandResult{Stdout: "Initialized"})
	f.SetError("bundle install", errors.New("bundle missing"))

	ctx := context.Background()
	res, err := f.Run(ctx, "/app", "git", "init")
	if err != nil || res.Stdout != "Initialized" {
		t.Fatalf("Run(git init) = %+v, %v", res, err)
	}
	if _, err := f.Run(ctx, "/app", "bundle", "install"); err == nil {
		t.Fatal("expected scripted error")
	}
	res, err = f.Run(ctx, "/app", "bin/setup")
	if err != nil || !res.Success() {
		t.Fatalf("unscripted command should succeed, got %+v, %v", res, err)
	}

	calls := f.Calls()
	if len(calls) != 3 {
		t.Fatalf("Calls() len = %d, want 3", len(calls))
	}
	if calls[0].Dir != "/app" || calls[0].Line() != "git init" {
		t.Errorf("calls[0] = %+v", calls[0])
	}
}
