package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suspenders-cli/suspenders/internal/options"
)

// ErrUnknownStep is returned when a phase refers to an unregistered step.
var ErrUnknownStep = errors.New("unknown step")

// Visitor receives callbacks during Walk. Either field may be nil. A
// non-nil error from a callback stops the walk and is returned unchanged.
type Visitor struct {
	// Phase is called when a phase is entered, before its children.
	Phase func(p *Phase, path []string) error
	// Step is called for every step reference with its guard result.
	Step func(s Step, enabled bool, path []string) error
}

// Walk traverses root depth-first in declaration order. path holds the
// names of the enclosing phases, outermost first.
func Walk(root *Phase, reg *Registry, cfg options.Config, v Visitor) error {
	if root == nil {
		return fmt.Errorf("walking plan: nil root phase")
	}
	return walk(root, reg, cfg, v, nil)
}

func walk(p *Phase, reg *Registry, cfg options.Config, v Visitor, parent []string) error {
	path := append(parent[:len(parent):len(parent)], p.Name)

	if v.Phase != nil {
		if err := v.Phase(p, path); err != nil {
			return err
		}
	}

	for _, child := range p.Children {
		switch n := child.(type) {
		case *Phase:
			if n == nil {
				return fmt.Errorf("phase %s: nil child phase", strings.Join(path, "/"))
			}
			if err := walk(n, reg, cfg, v, path); err != nil {
				return err
			}
		case StepRef:
			step, ok := reg.Lookup(string(n))
			if !ok {
				return fmt.Errorf("phase %s: %w %q", strings.Join(path, "/"), ErrUnknownStep, string(n))
			}
			if v.Step == nil {
				continue
			}
			if err := v.Step(step, step.Enabled(cfg), path); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks that every step reference resolves, that no step is
// referenced more than once and that phases do not contain themselves.
func Validate(root *Phase, reg *Registry) error {
	if root == nil {
		return fmt.Errorf("validating plan: nil root phase")
	}
	seen := make(map[string]string)
	return validate(root, reg, seen, map[*Phase]bool{}, nil)
}

func validate(p *Phase, reg *Registry, seen map[string]string, stack map[*Phase]bool, parent []string) error {
	path := append(parent[:len(parent):len(parent)], p.Name)
	if stack[p] {
		return fmt.Errorf("phase %s contains itself", strings.Join(path, "/"))
	}
	stack[p] = true
	defer delete(stack, p)

	for _, child := range p.Children {
		switch n := child.(type) {
		case *Phase:
			if n == nil {
				return fmt.Errorf("phase %s: nil child phase", strings.Join(path, "/"))
			}
			if err := validate(n, reg, seen, stack, path); err != nil {
				return err
			}
		case StepRef:
			name := string(n)
			if _, ok := reg.Lookup(name); !ok {
				return fmt.Errorf("phase %s: %w %q", strings.Join(path, "/"), ErrUnknownStep, name)
			}
			where := strings.Join(path, "/")
			if prev, dup := seen[name]; dup {
				return fmt.Errorf("step %q referenced by both %s and %s", name, prev, where)
			}
			seen[name] = where
		default:
			return fmt.Errorf("phase %s: unsupported node %T", strings.Join(path, "/"), child)
		}
	}
	return nil
}

// Sequence returns the names of the steps that would run for cfg, in order.
func Sequence(root *Phase, reg *Registry, cfg options.Config) ([]string, error) {
	var names []string
	err := Walk(root, reg, cfg, Visitor{
		Step: func(s Step, enabled bool, _ []string) error {
			if enabled {
				names = append(names, s.Name)
			}
			return nil
		},
	})
	return names, err
}
