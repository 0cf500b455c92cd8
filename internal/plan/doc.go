// Package plan declares the customization steps and the phase tree that
// orders them. Steps are registered by name in a Registry; phases refer to
// steps by name and may nest other phases. Everything here is static data:
// the same Config always yields the same walk.
package plan
