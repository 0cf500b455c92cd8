//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suspenders-cli/suspenders/internal/platform"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // SUSPENDERS_HOME, holds config.yaml
	WorkDir string // parent of the generated project
	AppPath string // project created by the fake "rails new"
}

// setupTestEnv creates isolated temp directories and points the config
// layer at them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		WorkDir: t.TempDir(),
	}
	env.AppPath = filepath.Join(env.WorkDir, "shop")
	t.Setenv("SUSPENDERS_HOME", env.HomeDir)
	return env
}

// railsSkeleton is the part of a "rails new" tree the recipes edit.
var railsSkeleton = map[string]string{
	"Gemfile":               "source \"https://rubygems.org\"\n\ngem \"rails\"\n",
	"Rakefile":              "require_relative \"config/application\"\n\nRails.application.load_tasks\n",
	"config/application.rb": "module Shop\n  class Application < Rails::Application\n  end\nend\n",
	"config/routes.rb":      "Rails.application.routes.draw do\n  # root \"home#index\"\nend\n",
	"config/environments/development.rb": "Rails.application.configure do\n" +
		"  config.action_mailer.raise_delivery_errors = false\n" +
		"  # config.i18n.raise_on_missing_translations = true\n" +
		"end\n",
	"config/environments/test.rb": "Rails.application.configure do\n" +
		"  # config.i18n.raise_on_missing_translations = true\n" +
		"end\n",
	"config/environments/production.rb": "Rails.application.configure do\n" +
		"  # config.asset_host = \"http://assets.example.com\"\n" +
		"end\n",
	"app/assets/stylesheets/application.css": "",
}

// fakeShell records every command. "rails new <path>" writes railsSkeleton
// under path and "git init" creates .git, like the real tools.
type fakeShell struct {
	*platform.FakeRunner
	t *testing.T
}

func newFakeShell(t *testing.T) *fakeShell {
	return &fakeShell{FakeRunner: platform.NewFakeRunner(), t: t}
}

func (s *fakeShell) Run(ctx context.Context, dir, name string, args ...string) (platform.CommandResult, error) {
	res, err := s.FakeRunner.Run(ctx, dir, name, args...)
	if err != nil || !res.Success() {
		return res, err
	}
	switch {
	case name == "rails" && len(args) > 1 && args[0] == "new":
		for rel, content := range railsSkeleton {
			writeFile(s.t, filepath.Join(dir, args[1], filepath.FromSlash(rel)), content)
		}
	case name == "git" && len(args) == 1 && args[0] == "init":
		if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
			return res, err
		}
	}
	return res, nil
}

// commandLines returns the recorded command lines in order.
func (s *fakeShell) commandLines() []string {
	var lines []string
	for _, c := range s.Calls() {
		lines = append(lines, c.Line())
	}
	return lines
}

// writeFile writes content to path, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
