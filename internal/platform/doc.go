// Package platform wraps the operating system pieces the builder needs:
// permission changes that degrade gracefully on Windows, and running
// external commands (git, bundle, the base project generator) inside the
// target directory.
package platform
