// Package recipe is the file-system Builder used by "suspenders new".
//
// A recipe catalog maps every step name to an ordered list of operations
// (render a template, copy a file, insert a line, run a command, ...).
// The default catalog and its templates are embedded in the binary; a
// directory with the same layout can replace it:
//
//	recipes.yaml
//	templates/
//	  Gemfile.tmpl
//	  ...
//
// Catalogs are validated against an embedded JSON schema when loaded.
// Every operation is written so that applying a step twice leaves the
// project unchanged.
package recipe
