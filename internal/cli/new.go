package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/suspenders-cli/suspenders/internal/branding"
	"github.com/suspenders-cli/suspenders/internal/builder"
	"github.com/suspenders-cli/suspenders/internal/config"
	"github.com/suspenders-cli/suspenders/internal/options"
	"github.com/suspenders-cli/suspenders/internal/orchestrator"
	"github.com/suspenders-cli/suspenders/internal/plan"
	"github.com/suspenders-cli/suspenders/internal/platform"
	"github.com/suspenders-cli/suspenders/internal/recipe"
	"github.com/suspenders-cli/suspenders/internal/release"
	"github.com/suspenders-cli/suspenders/internal/reporter"
	"github.com/suspenders-cli/suspenders/internal/skeleton"
)

var newRecipesDir string

func init() {
	options.Register(newCmd.Flags())
	newCmd.Flags().StringVar(&newRecipesDir, "recipes", "", "Directory holding a custom recipes.yaml and templates/")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <app-path>",
	Short: "Generate a project and apply every customization",
	Long: `Generate a new project at <app-path> with the base generator, then run the
customization plan against it. Steps run one at a time in declaration order;
the first failing step stops the run and nothing already done is undone.

Flags override values stored with "config set", which override built-in defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags(), args[0])
		if err != nil {
			return err
		}

		log := newLogger(cmd.ErrOrStderr())
		env, err := newEnv(cmd.OutOrStdout(), log, cfg, newRecipesDir)
		if err != nil {
			return err
		}
		if _, err := runNew(cmd.Context(), cfg, env); err != nil {
			return err
		}
		release.Notice(cmd.ErrOrStderr(), config.Dir(), buildVersion)
		return nil
	},
}

// resolveConfig layers flags over stored defaults and targets appPath.
func resolveConfig(fs *pflag.FlagSet, appPath string) (options.Config, error) {
	cfg, err := options.Resolve(fs, config.Lookup)
	if err != nil {
		return options.Config{}, err
	}
	return cfg.WithAppPath(appPath), nil
}

// runEnv holds the collaborators of one "new" run.
type runEnv struct {
	out       io.Writer
	log       zerolog.Logger
	builder   builder.Builder
	generator skeleton.Generator // unused in dry-run mode
	color     bool
}

func newEnv(out io.Writer, log zerolog.Logger, cfg options.Config, recipesDir string) (*runEnv, error) {
	env := &runEnv{out: out, log: log, color: !noColor}
	if cfg.DryRun {
		env.builder = builder.NewRecorder()
		return env, nil
	}

	runner := platform.NewExecRunner()
	opts := []recipe.Option{recipe.WithRunner(runner), recipe.WithLogger(log)}
	if recipesDir != "" {
		catalog, err := loadCatalog(recipesDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, recipe.WithCatalog(catalog))
	}
	b, err := recipe.New(cfg.AppPath, opts...)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("root", b.Root()).Int("recipes", len(b.Catalog().Names())).
		Bool("custom", recipesDir != "").Msg("recipe builder ready")
	env.builder = b
	env.generator = skeleton.NewCommandGenerator(skeletonCommand(), runner, log)
	return env, nil
}

// loadCatalog loads a custom recipe directory and requires it to cover
// every registered step, so a gap fails before the project is touched.
func loadCatalog(dir string) (*recipe.Catalog, error) {
	c, err := recipe.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	reg, _ := plan.Customize()
	if missing := c.Missing(reg.Names()); len(missing) > 0 {
		return nil, fmt.Errorf("recipes in %s do not cover: %s", dir, strings.Join(missing, ", "))
	}
	return c, nil
}

func skeletonCommand() string {
	if v, ok := config.Lookup("skeleton_command"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return branding.SkeletonCommand()
}

func runNew(ctx context.Context, cfg options.Config, env *runEnv) (*orchestrator.Result, error) {
	switch {
	case cfg.DryRun:
	case cfg.SkipSkeleton:
		if err := skeleton.RequireDir(cfg.AppPath); err != nil {
			return nil, err
		}
	default:
		if err := env.generator.Generate(ctx, cfg); err != nil {
			return nil, err
		}
	}

	outro := plan.Outro
	if cfg.DryRun {
		outro = nil
	}
	orch := orchestrator.New(
		orchestrator.WithReporter(reporter.NewConsole(env.out, reporter.WithColor(env.color))),
		orchestrator.WithLogger(env.log),
		orchestrator.WithOutro(outro...),
	)

	reg, root := plan.Customize()
	res, err := orch.Execute(ctx, root, reg, cfg, env.builder)
	if err != nil {
		return res, err
	}
	if cfg.DryRun {
		printDryRun(env.out, res)
	}
	return res, nil
}

func printDryRun(w io.Writer, res *orchestrator.Result) {
	fmt.Fprintf(w, "\nDry run: %d steps would run, %d skipped.\n", len(res.Executed), len(res.Skipped))
	for _, name := range res.Executed {
		fmt.Fprintf(w, "  run   %s\n", name)
	}
	for _, name := range res.Skipped {
		fmt.Fprintf(w, "  skip  %s\n", name)
	}
}
