package cli

import (
	"github.com/spf13/cobra"

	"github.com/suspenders-cli/suspenders/internal/options"
	"github.com/suspenders-cli/suspenders/internal/plan"
)

func init() {
	options.Register(planCmd.Flags())
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan [app-path]",
	Short: "Show the customization tree for the given options",
	Long: `Print every phase and step of the customization plan. Steps whose guard is
false for the given options are marked "(skipped)". Nothing is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appPath := "app"
		if len(args) == 1 {
			appPath = args[0]
		}
		cfg, err := resolveConfig(cmd.Flags(), appPath)
		if err != nil {
			return err
		}

		reg, root := plan.Customize()
		if err := plan.Validate(root, reg); err != nil {
			return err
		}
		plan.PrintTree(cmd.OutOrStdout(), root, reg, cfg)
		return nil
	},
}
