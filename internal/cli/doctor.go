package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/suspenders-cli/suspenders/internal/config"
	"github.com/suspenders-cli/suspenders/internal/options"
	"github.com/suspenders-cli/suspenders/internal/platform"
	"github.com/suspenders-cli/suspenders/internal/recipe"
)

var doctorRecipesDir string

// requiredTools are run by the skeleton generator and command recipes.
var requiredTools = []string{"ruby", "rails", "bundle", "git"}

func init() {
	doctorCmd.Flags().StringVar(&doctorRecipesDir, "recipes", "", "Validate a custom recipe directory")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the tools and settings used by 'new' are in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := doctor{
			out:        cmd.OutOrStdout(),
			runner:     platform.NewExecRunner(),
			lookPath:   exec.LookPath,
			recipesDir: doctorRecipesDir,
		}
		if !d.run(cmd.Context()) {
			return errors.New("doctor found problems")
		}
		return nil
	},
}

type doctor struct {
	out        io.Writer
	runner     platform.CommandRunner
	lookPath   func(string) (string, error)
	recipesDir string
}

// run prints every check and reports whether all of them passed.
// Warnings do not count as failures.
func (d doctor) run(ctx context.Context) bool {
	healthy := true

	fmt.Fprintln(d.out, "Tools:")
	for _, name := range requiredTools {
		path, err := d.lookPath(name)
		if err != nil {
			fmt.Fprintf(d.out, "  [MISS] %s not found\n", name)
			healthy = false
			continue
		}
		fmt.Fprintf(d.out, "  [ OK ] %s found at %s\n", name, path)
	}

	fmt.Fprintln(d.out, "Ruby:")
	d.checkRuby(ctx)

	fmt.Fprintln(d.out, "Config:")
	if !d.checkConfig() {
		healthy = false
	}

	fmt.Fprintln(d.out, "Recipes:")
	if !d.checkRecipes() {
		healthy = false
	}
	return healthy
}

// checkRuby compares the installed ruby with the version new projects pin.
func (d doctor) checkRuby(ctx context.Context) {
	res, err := d.runner.Run(ctx, "", "ruby", "-e", "print RUBY_VERSION")
	if err == nil {
		err = res.Err("ruby")
	}
	if err != nil {
		fmt.Fprintf(d.out, "  [WARN] cannot read ruby version: %v\n", err)
		return
	}
	installed, err := semver.NewVersion(strings.TrimSpace(res.Stdout))
	if err != nil {
		fmt.Fprintf(d.out, "  [WARN] unexpected ruby version %q\n", strings.TrimSpace(res.Stdout))
		return
	}

	pinned := options.DefaultRubyVersion
	if v, ok := config.Lookup("ruby_version"); ok {
		pinned = v
	}
	want, err := semver.NewVersion(strings.TrimPrefix(pinned, "v"))
	if err != nil {
		fmt.Fprintf(d.out, "  [WARN] stored ruby_version %q is not a version\n", pinned)
		return
	}
	constraint, err := semver.NewConstraint(fmt.Sprintf("~%d.%d", want.Major(), want.Minor()))
	if err != nil {
		fmt.Fprintf(d.out, "  [WARN] %v\n", err)
		return
	}
	if !constraint.Check(installed) {
		fmt.Fprintf(d.out, "  [WARN] ruby %s does not match %s pinned in new projects\n", installed, want)
		return
	}
	fmt.Fprintf(d.out, "  [ OK ] ruby %s matches %s\n", installed, want)
}

func (d doctor) checkConfig() bool {
	ok := true
	fmt.Fprintf(d.out, "  [INFO] %s\n", config.FilePath())
	for _, key := range config.Keys {
		value, set := config.Lookup(key)
		if !set {
			continue
		}
		if err := options.ValidateStored(key, value); err != nil {
			fmt.Fprintf(d.out, "  [FAIL] %s: %v\n", key, err)
			ok = false
			continue
		}
		fmt.Fprintf(d.out, "  [ OK ] %s = %s\n", key, value)
	}
	return ok
}

func (d doctor) checkRecipes() bool {
	if d.recipesDir == "" {
		if _, err := recipe.Default(); err != nil {
			fmt.Fprintf(d.out, "  [FAIL] built-in recipes: %v\n", err)
			return false
		}
		fmt.Fprintln(d.out, "  [ OK ] built-in recipes are valid")
		return true
	}
	if _, err := loadCatalog(d.recipesDir); err != nil {
		fmt.Fprintf(d.out, "  [FAIL] %v\n", err)
		return false
	}
	fmt.Fprintf(d.out, "  [ OK ] %s is valid and covers every step\n", d.recipesDir)
	return true
}
