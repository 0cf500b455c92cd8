package options

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/pflag"
)

// Kind describes how an option value is parsed and validated.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindEnum
	KindSemver
)

// Option is one entry of the static option schema.
type Option struct {
	Name    string // long flag name, e.g. "database"
	Alias   string // one-letter shorthand, may be empty
	Key     string // user config key, empty when the option has no stored default
	Kind    Kind
	Default string
	Choices []string          // allow-list for KindEnum
	Aliases map[string]string // accepted spellings mapped to a choice
	Usage   string
}

// Supported databases.
var Databases = []string{"postgresql", "mysql", "sqlite3"}

// databaseAliases are accepted for --database and normalized to a choice.
var databaseAliases = map[string]string{
	"sqlite":   "sqlite3",
	"postgres": "postgresql",
}

// DefaultDatabase is used when neither a flag nor a stored default picks one.
const DefaultDatabase = "postgresql"

// DefaultRubyVersion is written to the manifest when no version is given.
const DefaultRubyVersion = "3.3.0"

// Option names.
const (
	OptDatabase       = "database"
	OptSkipTurbolinks = "skip-turbolinks"
	OptSkipBundle     = "skip-bundle"
	OptRubyVersion    = "ruby-version"
	OptSkipSkeleton   = "skip-skeleton"
	OptDryRun         = "dry-run"
)

var schema = []Option{
	{
		Name:    OptDatabase,
		Alias:   "d",
		Key:     "database",
		Kind:    KindEnum,
		Default: DefaultDatabase,
		Choices: Databases,
		Aliases: databaseAliases,
		Usage:   fmt.Sprintf("Configure for selected database (options: %s)", strings.Join(Databases, "/")),
	},
	{
		Name:    OptSkipTurbolinks,
		Key:     "skip_turbolinks",
		Kind:    KindBool,
		Default: "true",
		Usage:   "Skip turbolinks gem",
	},
	{
		Name:    OptSkipBundle,
		Alias:   "B",
		Key:     "skip_bundle",
		Kind:    KindBool,
		Default: "true",
		Usage:   "Don't run bundle install",
	},
	{
		Name:    OptRubyVersion,
		Key:     "ruby_version",
		Kind:    KindSemver,
		Default: DefaultRubyVersion,
		Usage:   "Ruby version pinned in the Gemfile and .ruby-version",
	},
	{
		Name:    OptSkipSkeleton,
		Kind:    KindBool,
		Default: "false",
		Usage:   "Customize an existing project instead of generating a new skeleton",
	},
	{
		Name:    OptDryRun,
		Kind:    KindBool,
		Default: "false",
		Usage:   "Print the steps that would run without touching the file system",
	},
}

// Schema returns a copy of the static option schema.
func Schema() []Option {
	out := make([]Option, len(schema))
	copy(out, schema)
	return out
}

// LookupFunc returns a stored default for a config key.
type LookupFunc func(key string) (string, bool)

// Register installs every schema option on fs.
func Register(fs *pflag.FlagSet) {
	for _, opt := range schema {
		switch opt.Kind {
		case KindBool:
			def, _ := strconv.ParseBool(opt.Default)
			fs.BoolP(opt.Name, opt.Alias, def, opt.Usage)
		default:
			fs.StringP(opt.Name, opt.Alias, opt.Default, opt.Usage)
		}
	}
}

// Parse resolves argv against the schema using schema defaults only. The
// first positional argument, if any, becomes the application path.
func Parse(argv []string) (Config, error) {
	fs := pflag.NewFlagSet("options", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	Register(fs)
	if err := fs.Parse(argv); err != nil {
		return Config{}, fmt.Errorf("parsing arguments: %w", err)
	}

	cfg, err := Resolve(fs, nil)
	if err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		cfg = cfg.WithAppPath(fs.Arg(0))
	}
	return cfg, nil
}

// Resolve builds a Config from a parsed flag set. For each option the
// explicit flag value wins, then lookup (may be nil), then the schema default.
func Resolve(fs *pflag.FlagSet, lookup LookupFunc) (Config, error) {
	values := make(map[string]string, len(schema))
	for _, opt := range schema {
		v, err := validate(opt, rawValue(fs, lookup, opt))
		if err != nil {
			return Config{}, err
		}
		values[opt.Name] = v
	}

	return Config{
		Database:       values[OptDatabase],
		SkipTurbolinks: values[OptSkipTurbolinks] == "true",
		SkipBundle:     values[OptSkipBundle] == "true",
		RubyVersion:    values[OptRubyVersion],
		SkipSkeleton:   values[OptSkipSkeleton] == "true",
		DryRun:         values[OptDryRun] == "true",
	}, nil
}

// ValidateStored checks a value destined for the user config file against
// the option bound to key. Keys without an option are accepted as is.
func ValidateStored(key, value string) error {
	for _, opt := range schema {
		if opt.Key == key {
			_, err := validate(opt, value)
			return err
		}
	}
	return nil
}

func rawValue(fs *pflag.FlagSet, lookup LookupFunc, opt Option) string {
	if fs != nil {
		if f := fs.Lookup(opt.Name); f != nil && f.Changed {
			return f.Value.String()
		}
	}
	if lookup != nil && opt.Key != "" {
		if v, ok := lookup(opt.Key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return opt.Default
}

func validate(opt Option, raw string) (string, error) {
	switch opt.Kind {
	case KindEnum:
		v := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := opt.Aliases[v]; ok {
			v = canonical
		}
		if !slices.Contains(opt.Choices, v) {
			return "", &InvalidOptionError{Option: opt.Name, Value: raw, Allowed: opt.Choices}
		}
		return v, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", &InvalidOptionError{Option: opt.Name, Value: raw, Reason: "expected true or false"}
		}
		return strconv.FormatBool(b), nil
	case KindSemver:
		ver, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
		if err != nil {
			return "", &InvalidOptionError{Option: opt.Name, Value: raw, Reason: err.Error()}
		}
		return ver.String(), nil
	default:
		return raw, nil
	}
}

// Config is the resolved, read-only configuration for one run. It is
// passed by value so guards and argument resolvers cannot mutate it.
type Config struct {
	AppPath        string
	AppName        string
	Database       string
	SkipTurbolinks bool
	SkipBundle     bool
	RubyVersion    string
	SkipSkeleton   bool
	DryRun         bool
}

// WithAppPath returns a copy of c targeting path. AppName is the base name.
func (c Config) WithAppPath(path string) Config {
	c.AppPath = path
	c.AppName = filepath.Base(filepath.Clean(path))
	return c
}

// UsesPostgres reports whether the postgresql database was selected.
func (c Config) UsesPostgres() bool {
	return c.Database == "postgresql"
}
