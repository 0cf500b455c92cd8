package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suspenders-cli/suspenders/internal/plan"
	"github.com/suspenders-cli/suspenders/internal/recipe"
)

var stepsRecipesDir string

func init() {
	stepsCmd.Flags().StringVar(&stepsRecipesDir, "recipes", "", "Check a custom recipe directory instead of the built-in one")
	rootCmd.AddCommand(stepsCmd)
}

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List registered steps and the operations that implement them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *recipe.Catalog
			err error
		)
		if stepsRecipesDir != "" {
			c, err = recipe.LoadDir(stepsRecipesDir)
		} else {
			c, err = recipe.Default()
		}
		if err != nil {
			return err
		}

		reg, _ := plan.Customize()
		if missing := listSteps(cmd.OutOrStdout(), reg, c); missing > 0 {
			return fmt.Errorf("%d steps have no recipe", missing)
		}
		return nil
	},
}

// listSteps prints one line per registered step and returns how many
// steps the catalog does not implement.
func listSteps(w io.Writer, reg *plan.Registry, c *recipe.Catalog) int {
	missing := 0
	for _, name := range reg.Names() {
		ops, ok := c.Ops(name)
		if !ok {
			missing++
			fmt.Fprintf(w, "%-42s (no recipe)\n", name)
			continue
		}
		fmt.Fprintf(w, "%-42s %s\n", name, describeOps(ops))
	}
	return missing
}

func describeOps(ops []recipe.Op) string {
	kinds := make([]string, len(ops))
	for i, op := range ops {
		kinds[i] = op.Op
	}
	return strings.Join(kinds, ", ")
}
