package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/suspenders-cli/suspenders/internal/builder"
	"github.com/suspenders-cli/suspenders/internal/config"
	"github.com/suspenders-cli/suspenders/internal/options"
	"github.com/suspenders-cli/suspenders/internal/orchestrator"
	"github.com/suspenders-cli/suspenders/internal/plan"
	"github.com/suspenders-cli/suspenders/internal/platform"
	"github.com/suspenders-cli/suspenders/internal/recipe"
	"github.com/suspenders-cli/suspenders/internal/release"
	"github.com/suspenders-cli/suspenders/internal/skeleton"
)

// isolateConfig points the config layer at an empty temp directory.
func isolateConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("SUSPENDERS_HOME", t.TempDir())
	config.Load()
	t.Cleanup(viper.Reset)
}

func parse(t *testing.T, argv ...string) options.Config {
	t.Helper()
	cfg, err := options.Parse(argv)
	if err != nil {
		t.Fatalf("options.Parse(%v): %v", argv, err)
	}
	return cfg
}

func testEnv(b builder.Builder, gen skeleton.Generator) (*runEnv, *bytes.Buffer) {
	var out bytes.Buffer
	return &runEnv{out: &out, log: zerolog.Nop(), builder: b, generator: gen}, &out
}

var noopGenerator = skeleton.GeneratorFunc(func(context.Context, options.Config) error { return nil })

func TestResolveConfig_StoredDefaults(t *testing.T) {
	isolateConfig(t)
	if err := config.Set("database", "mysql"); err != nil {
		t.Fatalf("config.Set: %v", err)
	}

	fs := pflag.NewFlagSet("new", pflag.ContinueOnError)
	options.Register(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(fs, "apps/shop")
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Database != "mysql" || cfg.AppName != "shop" {
		t.Errorf("got database=%q app=%q, want mysql/shop", cfg.Database, cfg.AppName)
	}

	fs = pflag.NewFlagSet("new", pflag.ContinueOnError)
	options.Register(fs)
	if err := fs.Parse([]string{"-d", "sqlite3"}); err != nil {
		t.Fatal(err)
	}
	cfg, err = resolveConfig(fs, "shop")
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Database != "sqlite3" {
		t.Errorf("flag should win over stored default, got %q", cfg.Database)
	}
}

func TestNewCommand_InvalidOptionTouchesNothing(t *testing.T) {
	isolateConfig(t)
	target := filepath.Join(t.TempDir(), "shop")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"new", target, "--database", "oracle"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	if !errors.Is(err, options.ErrInvalidOption) {
		t.Fatalf("Execute() error = %v, want ErrInvalidOption", err)
	}
	if !strings.Contains(err.Error(), "oracle") || !strings.Contains(err.Error(), "postgresql/mysql/sqlite3") {
		t.Errorf("error %q should name the value and the allowed choices", err)
	}
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Errorf("target was created: %v", statErr)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be announced, got %q", stdout.String())
	}
}

func TestRunNew_DryRun(t *testing.T) {
	rec := builder.NewRecorder()
	env, out := testEnv(rec, nil)

	res, err := runNew(context.Background(), parse(t, "--dry-run", "-d", "mysql", "shop"), env)
	if err != nil {
		t.Fatalf("runNew: %v", err)
	}
	if res.State != orchestrator.Succeeded {
		t.Errorf("state = %s, want succeeded", res.State)
	}
	if len(rec.Calls()) != len(res.Executed) {
		t.Errorf("recorder saw %d calls, result has %d", len(rec.Calls()), len(res.Executed))
	}

	text := out.String()
	for _, want := range []string{"Setting up the development environment", "Dry run:", "skip  bundle_install", "skip  use_postgres_config_template", "run   create_database"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, plan.Outro[0]) {
		t.Error("dry run should not print the outro")
	}
}

func TestRunNew_Success(t *testing.T) {
	rec := builder.NewRecorder()
	generated := false
	gen := skeleton.GeneratorFunc(func(_ context.Context, cfg options.Config) error {
		generated = cfg.AppPath == "shop"
		return nil
	})
	env, out := testEnv(rec, gen)

	if _, err := runNew(context.Background(), parse(t, "shop"), env); err != nil {
		t.Fatalf("runNew: %v", err)
	}
	if !generated {
		t.Error("skeleton generator was not called")
	}
	steps := rec.Steps()
	if steps[0] != "replace_gemfile" || steps[len(steps)-1] != "setup_spring" {
		t.Errorf("unexpected step order: first=%s last=%s", steps[0], steps[len(steps)-1])
	}
	for _, line := range plan.Outro {
		if !strings.Contains(out.String(), line) {
			t.Errorf("output missing outro line %q", line)
		}
	}
}

func TestRunNew_StepFailure(t *testing.T) {
	rec := builder.NewRecorder()
	rec.FailOn("init_git", errors.New("git is required but not found in PATH"))
	env, out := testEnv(rec, noopGenerator)

	res, err := runNew(context.Background(), parse(t, "shop"), env)
	if !errors.Is(err, orchestrator.ErrStepFailed) {
		t.Fatalf("error = %v, want ErrStepFailed", err)
	}
	if !strings.Contains(err.Error(), "init_git") || !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("error %q should name the step and the cause", err)
	}
	if res.State != orchestrator.Failed {
		t.Errorf("state = %s, want failed", res.State)
	}
	steps := rec.Steps()
	if steps[len(steps)-1] != "init_git" {
		t.Errorf("last builder call = %s, want init_git", steps[len(steps)-1])
	}
	if strings.Contains(out.String(), plan.Outro[0]) {
		t.Error("failed run should not print the outro")
	}
}

func TestRunNew_SkeletonFailureStopsBeforeSteps(t *testing.T) {
	rec := builder.NewRecorder()
	gen := skeleton.GeneratorFunc(func(context.Context, options.Config) error {
		return skeleton.ErrTargetNotEmpty
	})
	env, _ := testEnv(rec, gen)

	if _, err := runNew(context.Background(), parse(t, "shop"), env); !errors.Is(err, skeleton.ErrTargetNotEmpty) {
		t.Fatalf("error = %v, want ErrTargetNotEmpty", err)
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("builder called %d times, want 0", n)
	}
}

func TestRunNew_SkipSkeleton(t *testing.T) {
	rec := builder.NewRecorder()
	env, _ := testEnv(rec, nil)

	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := runNew(context.Background(), parse(t, "--skip-skeleton", missing), env); err == nil {
		t.Fatal("expected an error for a missing project directory")
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("builder called %d times, want 0", n)
	}

	if _, err := runNew(context.Background(), parse(t, "--skip-skeleton", t.TempDir()), env); err != nil {
		t.Fatalf("runNew on existing dir: %v", err)
	}
}

func TestListSteps(t *testing.T) {
	c, err := recipe.Default()
	if err != nil {
		t.Fatal(err)
	}
	reg, _ := plan.Customize()

	var out bytes.Buffer
	if missing := listSteps(&out, reg, c); missing != 0 {
		t.Errorf("built-in catalog misses %d steps", missing)
	}
	if !strings.Contains(out.String(), "init_git") || !strings.Contains(out.String(), "command") {
		t.Errorf("unexpected listing:\n%s", out.String())
	}
}

func TestLoadCatalog_RequiresFullCoverage(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "steps:\n  init_git:\n    - op: command\n      argv: [git, init]\n      unless: .git\n"
	if err := os.WriteFile(filepath.Join(dir, recipe.CatalogFile), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadCatalog(dir)
	if err == nil || !strings.Contains(err.Error(), "replace_gemfile") {
		t.Errorf("loadCatalog error = %v, want it to list uncovered steps", err)
	}
}

func TestDoctor(t *testing.T) {
	isolateConfig(t)

	runner := platform.NewFakeRunner()
	runner.SetResult("ruby -e print RUBY_VERSION", platform.CommandResult{Stdout: "3.3.4"})
	var out bytes.Buffer
	d := doctor{
		out:    &out,
		runner: runner,
		lookPath: func(name string) (string, error) {
			if name == "rails" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + name, nil
		},
	}

	if d.run(context.Background()) {
		t.Error("doctor should fail when rails is missing")
	}
	text := out.String()
	for _, want := range []string{
		"[ OK ] git found at /usr/bin/git",
		"[MISS] rails not found",
		"[ OK ] ruby 3.3.4 matches 3.3.0",
		"[ OK ] built-in recipes are valid",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestCheckRelease_UsesFreshStatus(t *testing.T) {
	old := buildVersion
	buildVersion = "1.0.0"
	t.Cleanup(func() { buildVersion = old })

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"tag_name":"v1.1.0","html_url":"https://example.com/v1.1.0"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	now := time.Now()
	checker := release.NewChecker("1.0.0", release.WithBaseURL(srv.URL), release.WithClock(func() time.Time { return now }))

	var out bytes.Buffer
	if err := checkRelease(context.Background(), &out, checker, dir, now); err != nil {
		t.Fatalf("checkRelease: %v", err)
	}
	if err := checkRelease(context.Background(), &out, checker, dir, now.Add(time.Hour)); err != nil {
		t.Fatalf("checkRelease: %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("release API called %d times, want 1", n)
	}
	if !strings.Contains(out.String(), "Update available: 1.0.0 -> v1.1.0") {
		t.Errorf("output = %q", out.String())
	}
}
