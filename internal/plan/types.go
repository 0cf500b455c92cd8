package plan

import (
	"github.com/suspenders-cli/suspenders/internal/builder"
	"github.com/suspenders-cli/suspenders/internal/options"
)

// Guard decides whether a step runs for a configuration. Guards must be pure.
type Guard func(cfg options.Config) bool

// ArgsFunc computes step-specific builder arguments from the configuration.
type ArgsFunc func(cfg options.Config) builder.Args

// Always is the default guard.
func Always(options.Config) bool { return true }

// Step is one named unit of customization work.
type Step struct {
	Name  string
	Guard Guard    // nil means Always
	Args  ArgsFunc // nil means common arguments only
}

// Enabled evaluates the step's guard against cfg.
func (s Step) Enabled(cfg options.Config) bool {
	if s.Guard == nil {
		return true
	}
	return s.Guard(cfg)
}

// ResolveArgs returns the common arguments overlaid with the step's own.
func (s Step) ResolveArgs(cfg options.Config) builder.Args {
	args := CommonArgs(cfg)
	if s.Args == nil {
		return args
	}
	return args.Merge(s.Args(cfg))
}

// Node is a child of a Phase: either a StepRef or a nested *Phase.
type Node interface {
	node()
}

// StepRef refers to a registered step by name.
type StepRef string

func (StepRef) node() {}

// Phase is a named, ordered group of steps and nested phases. A non-empty
// Label is announced before the phase's children run.
type Phase struct {
	Name     string
	Label    string
	Children []Node
}

func (*Phase) node() {}

// NewPhase builds a phase from its children in declaration order.
func NewPhase(name, label string, children ...Node) *Phase {
	return &Phase{Name: name, Label: label, Children: children}
}

// Steps is shorthand for a list of StepRef nodes.
func Steps(names ...string) []Node {
	nodes := make([]Node, 0, len(names))
	for _, n := range names {
		nodes = append(nodes, StepRef(n))
	}
	return nodes
}
