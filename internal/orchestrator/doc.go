// Package orchestrator runs a customization plan. It walks the phase tree
// depth-first in declaration order, evaluates each step's guard against the
// configuration, calls the builder for enabled steps and stops at the first
// failure. Nothing already applied is undone; steps are expected to be safe
// to re-run from a clean base.
package orchestrator
