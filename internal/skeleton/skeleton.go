// Package skeleton creates the base project that the customization plan
// then edits. The default generator shells out to "rails new".
package skeleton

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/suspenders-cli/suspenders/internal/options"
	"github.com/suspenders-cli/suspenders/internal/platform"
)

// ErrTargetNotEmpty is returned when the target directory already has files.
var ErrTargetNotEmpty = errors.New("target directory is not empty")

// Generator creates the base project for cfg.AppPath.
type Generator interface {
	Generate(ctx context.Context, cfg options.Config) error
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, cfg options.Config) error

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, cfg options.Config) error {
	return f(ctx, cfg)
}

// CommandGenerator runs an external generator command. The command is a
// Go template over Config, split on whitespace after rendering.
type CommandGenerator struct {
	command string
	runner  platform.CommandRunner
	log     zerolog.Logger
}

// NewCommandGenerator returns a CommandGenerator for the command template.
func NewCommandGenerator(command string, runner platform.CommandRunner, log zerolog.Logger) *CommandGenerator {
	return &CommandGenerator{command: command, runner: runner, log: log}
}

// Argv renders the command line for cfg.
func (g *CommandGenerator) Argv(cfg options.Config) ([]string, error) {
	tmpl, err := template.New("skeleton").Option("missingkey=error").Parse(g.command)
	if err != nil {
		return nil, fmt.Errorf("parsing skeleton command: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return nil, fmt.Errorf("rendering skeleton command: %w", err)
	}
	argv := strings.Fields(buf.String())
	if len(argv) == 0 {
		return nil, fmt.Errorf("skeleton command is empty")
	}
	return argv, nil
}

// Generate runs the command from the current directory and checks that it
// produced cfg.AppPath.
func (g *CommandGenerator) Generate(ctx context.Context, cfg options.Config) error {
	if cfg.AppPath == "" {
		return fmt.Errorf("generating skeleton: no application path")
	}
	if err := CheckTarget(cfg.AppPath); err != nil {
		return err
	}
	argv, err := g.Argv(cfg)
	if err != nil {
		return err
	}

	line := strings.Join(argv, " ")
	g.log.Debug().Str("command", line).Msg("generating skeleton")
	res, err := g.runner.Run(ctx, "", argv[0], argv[1:]...)
	if err != nil {
		return fmt.Errorf("generating skeleton: %w", err)
	}
	if err := res.Err(line); err != nil {
		return fmt.Errorf("generating skeleton: %w", err)
	}

	if err := RequireDir(cfg.AppPath); err != nil {
		return fmt.Errorf("generating skeleton: %s did not create it: %w", argv[0], err)
	}
	return nil
}

// CheckTarget fails if path exists and is not an empty directory.
func CheckTarget(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%s: %w", path, ErrTargetNotEmpty)
	}
	return nil
}

// RequireDir fails unless path is an existing directory. Used when the
// skeleton step is skipped and the project must already exist.
func RequireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

var _ Generator = (*CommandGenerator)(nil)
