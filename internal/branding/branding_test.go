package branding

import (
	"strings"
	"testing"
)

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "suspenders" {
		t.Errorf("CLIName() = %q, want %q", got, "suspenders")
	}
	if got := HomeDir(); got != ".suspenders" {
		t.Errorf("HomeDir() = %q, want %q", got, ".suspenders")
	}
	if !strings.Contains(SkeletonCommand(), "{{.AppPath}}") {
		t.Errorf("SkeletonCommand() = %q, want it to reference {{.AppPath}}", SkeletonCommand())
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("database"); got != "SUSPENDERS_DATABASE" {
		t.Errorf("EnvVar(\"database\") = %q, want %q", got, "SUSPENDERS_DATABASE")
	}
}

func TestGitHubRepo(t *testing.T) {
	if got := GitHubRepo(); got != "suspenders-cli/suspenders" {
		t.Errorf("GitHubRepo() = %q, want %q", got, "suspenders-cli/suspenders")
	}
}
