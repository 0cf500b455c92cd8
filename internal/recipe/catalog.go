package recipe

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed recipes.yaml
var embeddedRecipes []byte

//go:embed all:templates
var embeddedTemplates embed.FS

// CatalogFile is the catalog file name inside a recipe directory.
const CatalogFile = "recipes.yaml"

const templatesDir = "templates"

// Operation kinds.
const (
	OpTemplate = "template"
	OpCopy     = "copy"
	OpMkdir    = "mkdir"
	OpTouch    = "touch"
	OpRemove   = "remove"
	OpReplace  = "replace"
	OpInsert   = "insert"
	OpAppend   = "append"
	OpChmod    = "chmod"
	OpCommand  = "command"
)

// Op is a single file-system operation. Which fields apply depends on the
// kind; the schema enforces the required ones.
type Op struct {
	Op      string   `yaml:"op"`
	Src     string   `yaml:"src,omitempty"`     // template or file under templates/
	Dest    string   `yaml:"dest,omitempty"`    // project-relative output path
	File    string   `yaml:"file,omitempty"`    // project-relative file to edit
	Pattern string   `yaml:"pattern,omitempty"` // replace: regexp
	With    string   `yaml:"with,omitempty"`    // replace: replacement, may use $1
	After   string   `yaml:"after,omitempty"`   // insert: regexp anchor
	Text    string   `yaml:"text,omitempty"`    // insert: text placed after the anchor
	Line    string   `yaml:"line,omitempty"`    // append: line added once
	Mode    string   `yaml:"mode,omitempty"`    // chmod: "+x" or octal
	Argv    []string `yaml:"argv,omitempty"`    // command
	Unless  string   `yaml:"unless,omitempty"`  // command: skip when this path exists
}

// Target is the path the operation acts on, or the command line.
func (o Op) Target() string {
	switch {
	case o.Dest != "":
		return o.Dest
	case o.File != "":
		return o.File
	default:
		return strings.Join(o.Argv, " ")
	}
}

// Catalog maps step names to operations.
type Catalog struct {
	Version int             `yaml:"version"`
	Steps   map[string][]Op `yaml:"steps"`

	files    fs.FS // holds templates/<src>
	patterns map[string]*regexp.Regexp
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	c, err := Parse(embeddedRecipes, embeddedTemplates)
	if err != nil {
		return nil, fmt.Errorf("loading embedded recipes: %w", err)
	}
	return c, nil
}

// LoadDir reads dir/recipes.yaml and resolves templates from dir/templates.
func LoadDir(dir string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Join(dir, CatalogFile))
	if err != nil {
		return nil, fmt.Errorf("reading recipes: %w", err)
	}
	c, err := Parse(data, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("loading recipes from %s: %w", dir, err)
	}
	return c, nil
}

// Parse validates and decodes a catalog. files must contain a templates/
// directory holding every static src the catalog names.
func Parse(data []byte, files fs.FS) (*Catalog, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing recipes: %w", err)
	}
	c.files = files
	c.patterns = make(map[string]*regexp.Regexp)

	for _, step := range c.Names() {
		for i, op := range c.Steps[step] {
			if err := c.check(op); err != nil {
				return nil, fmt.Errorf("step %s op %d (%s): %w", step, i+1, op.Op, err)
			}
		}
	}
	return &c, nil
}

func (c *Catalog) check(op Op) error {
	for _, expr := range []string{op.Pattern, op.After} {
		if expr == "" {
			continue
		}
		if _, ok := c.patterns[expr]; ok {
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("compiling %q: %w", expr, err)
		}
		c.patterns[expr] = re
	}

	// Sources chosen by step arguments are only known at run time.
	if op.Src != "" && !strings.Contains(op.Src, "{{") {
		if _, err := fs.Stat(c.files, path.Join(templatesDir, op.Src)); err != nil {
			return fmt.Errorf("template %s: %w", op.Src, err)
		}
	}
	return nil
}

// Ops returns the operations for step.
func (c *Catalog) Ops(step string) ([]Op, bool) {
	ops, ok := c.Steps[step]
	return ops, ok
}

// Names returns every step with a recipe, sorted.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.Steps))
}

// Missing returns the names in steps that have no recipe, in input order.
func (c *Catalog) Missing(steps []string) []string {
	var out []string
	for _, name := range steps {
		if _, ok := c.Steps[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func (c *Catalog) regexp(expr string) (*regexp.Regexp, error) {
	if re, ok := c.patterns[expr]; ok {
		return re, nil
	}
	return regexp.Compile(expr)
}

func (c *Catalog) readTemplate(src string) ([]byte, error) {
	data, err := fs.ReadFile(c.files, path.Join(templatesDir, src))
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", src, err)
	}
	return data, nil
}
