// Package reporter prints human-readable progress lines while a plan runs.
// Reporting is observational: a Reporter error never changes the outcome
// of a run, it is logged by Safe and dropped.
package reporter

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Reporter announces progress messages.
type Reporter interface {
	Announce(msg string) error
}

// Console writes styled announcements to a writer.
type Console struct {
	out   io.Writer
	style lipgloss.Style
	color bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor toggles styling (default: on).
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) { c.color = enabled }
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:   out,
		color: true,
		style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Announce writes msg on its own line.
func (c *Console) Announce(msg string) error {
	line := msg
	if c.color {
		line = c.style.Render(msg)
	}
	_, err := fmt.Fprintln(c.out, line)
	return err
}

// Discard drops every announcement.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Announce(string) error { return nil }

// Safe wraps r so Announce never fails. Errors are logged at warn level.
func Safe(r Reporter, log zerolog.Logger) Reporter {
	if r == nil {
		r = Discard
	}
	return &safe{next: r, log: log}
}

type safe struct {
	next Reporter
	log  zerolog.Logger
}

func (s *safe) Announce(msg string) error {
	if err := s.next.Announce(msg); err != nil {
		s.log.Warn().Err(err).Str("message", msg).Msg("reporter failed")
	}
	return nil
}

// Func adapts a function to the Reporter interface.
type Func func(msg string) error

// Announce calls f.
func (f Func) Announce(msg string) error { return f(msg) }

var (
	_ Reporter = (*Console)(nil)
	_ Reporter = Func(nil)
)
