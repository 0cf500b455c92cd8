package recipe

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/suspenders-cli/suspenders/internal/builder"
	"github.com/suspenders-cli/suspenders/internal/platform"
)

// Builder applies catalog recipes to the project rooted at a directory.
type Builder struct {
	root    string
	catalog *Catalog
	runner  platform.CommandRunner
	log     zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithCatalog replaces the embedded catalog.
func WithCatalog(c *Catalog) Option {
	return func(b *Builder) { b.catalog = c }
}

// WithRunner sets the runner used by command operations.
func WithRunner(r platform.CommandRunner) Option {
	return func(b *Builder) { b.runner = r }
}

// WithLogger sets the logger for per-operation debug output.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// New returns a Builder for the project at root.
func New(root string, opts ...Option) (*Builder, error) {
	b := &Builder{
		root:   root,
		runner: platform.NewExecRunner(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.catalog == nil {
		c, err := Default()
		if err != nil {
			return nil, err
		}
		b.catalog = c
	}
	return b, nil
}

// Root returns the project directory.
func (b *Builder) Root() string { return b.root }

// Catalog returns the catalog in use.
func (b *Builder) Catalog() *Catalog { return b.catalog }

// Run applies every operation of step in order and stops at the first
// failure. Failures are returned as *builder.Error.
func (b *Builder) Run(ctx context.Context, step string, args builder.Args) error {
	ops, ok := b.catalog.Ops(step)
	if !ok {
		return &builder.Error{Step: step, Err: builder.ErrUnknownStep}
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return &builder.Error{Step: step, Op: op.Op, Err: err}
		}
		resolved, err := expand(op, args)
		if err != nil {
			return &builder.Error{Step: step, Op: op.Op, Err: err}
		}
		b.log.Debug().Str("step", step).Str("op", resolved.Op).Str("target", resolved.Target()).Msg("applying")
		if err := b.apply(ctx, resolved, args); err != nil {
			return &builder.Error{Step: step, Op: resolved.Op + " " + resolved.Target(), Err: err}
		}
	}
	return nil
}

// path resolves a project-relative path, rejecting anything that would
// land outside the project root.
func (b *Builder) path(rel string) (string, error) {
	p := filepath.FromSlash(rel)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("path %q is outside the project", rel)
	}
	return filepath.Join(b.root, p), nil
}

// expand substitutes step arguments into the templated fields of op.
// Patterns and modes are taken literally.
func expand(op Op, args builder.Args) (Op, error) {
	var err error
	field := func(s string) string {
		if err != nil {
			return s
		}
		var out string
		out, err = render("field", s, args)
		return out
	}

	op.Src = field(op.Src)
	op.Dest = field(op.Dest)
	op.File = field(op.File)
	op.With = field(op.With)
	op.Text = field(op.Text)
	op.Line = field(op.Line)
	op.Unless = field(op.Unless)
	if len(op.Argv) > 0 {
		argv := make([]string, len(op.Argv))
		for i, a := range op.Argv {
			argv[i] = field(a)
		}
		op.Argv = argv
	}
	return op, err
}

func render(name, text string, args builder.Args) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string(args)); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

var _ builder.Builder = (*Builder)(nil)
