// Package options resolves command-line style arguments into an immutable
// Config. Each option is described once in a static schema (name, alias,
// kind, default, choices); values come from explicit flags first, then from
// user defaults, then from the schema.
package options
