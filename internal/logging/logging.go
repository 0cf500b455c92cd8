// Package logging builds the zerolog logger shared by the CLI and the
// orchestration engine. Loggers are passed explicitly; nothing here sets
// the zerolog global logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type settings struct {
	verbose bool
	json    bool
	color   bool
}

// Option configures New.
type Option func(*settings)

// WithVerbose lowers the level to debug.
func WithVerbose(enabled bool) Option {
	return func(s *settings) { s.verbose = enabled }
}

// WithJSON switches from the console format to one JSON object per line.
func WithJSON(enabled bool) Option {
	return func(s *settings) { s.json = enabled }
}

// WithColor toggles ANSI colors in console output.
func WithColor(enabled bool) Option {
	return func(s *settings) { s.color = enabled }
}

// New returns a logger writing to w (os.Stderr when nil). The default level
// is warn so normal runs stay quiet; --verbose shows every builder call.
func New(w io.Writer, opts ...Option) zerolog.Logger {
	s := settings{color: true}
	for _, opt := range opts {
		opt(&s)
	}
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.WarnLevel
	if s.verbose {
		level = zerolog.DebugLevel
	}

	out := w
	if !s.json {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !s.color,
			TimeFormat: time.TimeOnly,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
