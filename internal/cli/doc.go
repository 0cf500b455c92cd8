// Package cli defines the Cobra command tree for the suspenders CLI. Each
// file registers one top-level command with the root command. Commands
// resolve options and wire dependencies; the work itself lives in the
// plan, orchestrator, recipe and skeleton packages.
package cli
