// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults apply when a key is missing.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	GitHubRepo      string `yaml:"github_repo"`
	SkeletonCommand string `yaml:"skeleton_command"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:         "suspenders",
			DisplayName:     "Suspenders",
			Description:     "Customize a freshly generated project into an opinionated starter app",
			HomeDir:         ".suspenders",
			EnvPrefix:       "SUSPENDERS",
			GitHubRepo:      "suspenders-cli/suspenders",
			SkeletonCommand: "rails new {{.AppPath}} --skip-bundle --database {{.Database}}",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "suspenders").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".suspenders").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SUSPENDERS").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the owner/name of the repository releases are published to.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// SkeletonCommand returns the default base-generator command template.
func SkeletonCommand() string { load(); return defaults.SkeletonCommand }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("database") → "SUSPENDERS_DATABASE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
