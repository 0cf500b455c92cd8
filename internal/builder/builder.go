package builder

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknownStep is returned by builders that have no action for a step name.
var ErrUnknownStep = errors.New("unknown step")

// Args are the template arguments handed to a builder for one step.
type Args map[string]string

// Get returns the value for key, or "" when absent.
func (a Args) Get(key string) string {
	return a[key]
}

// Merge returns a new Args with other's entries layered over a's.
func (a Args) Merge(other Args) Args {
	out := make(Args, len(a)+len(other))
	maps.Copy(out, a)
	maps.Copy(out, other)
	return out
}

// Keys returns the argument names in sorted order.
func (a Args) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Builder performs the file-system mutation for a named step. A nil error
// means the step succeeded.
type Builder interface {
	Run(ctx context.Context, step string, args Args) error
}

// Func adapts a plain function to the Builder interface.
type Func func(ctx context.Context, step string, args Args) error

// Run calls f.
func (f Func) Run(ctx context.Context, step string, args Args) error {
	return f(ctx, step, args)
}

// Error is a structured builder failure.
type Error struct {
	Step string // step being built
	Op   string // operation within the step, may be empty
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
