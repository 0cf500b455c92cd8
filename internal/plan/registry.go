package plan

import (
	"errors"
	"fmt"
)

// ErrDuplicateStep is returned when a step name is registered twice.
var ErrDuplicateStep = errors.New("duplicate step")

// Registry is an ordered mapping from step name to Step.
type Registry struct {
	steps map[string]Step
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// Register adds a step. Names must be unique and non-empty.
func (r *Registry) Register(s Step) error {
	if s.Name == "" {
		return fmt.Errorf("registering step: empty name")
	}
	if _, ok := r.steps[s.Name]; ok {
		return fmt.Errorf("registering step %q: %w", s.Name, ErrDuplicateStep)
	}
	r.steps[s.Name] = s
	r.order = append(r.order, s.Name)
	return nil
}

// MustRegister is Register for static declarations; it panics on error.
func (r *Registry) MustRegister(steps ...Step) {
	for _, s := range steps {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the step registered under name.
func (r *Registry) Lookup(name string) (Step, bool) {
	s, ok := r.steps[name]
	return s, ok
}

// Names returns step names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered steps.
func (r *Registry) Len() int {
	return len(r.order)
}
