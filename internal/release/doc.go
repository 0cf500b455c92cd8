// Package release checks GitHub Releases for a newer build of the CLI.
// Results are cached in the config directory so the "update available"
// notice never needs the network; only "version --check" refreshes it.
package release
