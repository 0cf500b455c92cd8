package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/suspenders-cli/suspenders/internal/branding"
	"github.com/suspenders-cli/suspenders/internal/config"
	"github.com/suspenders-cli/suspenders/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	noColor bool
	logJSON bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step and file operation")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write diagnostic logs as JSON")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` generates a new application and applies a fixed, opinionated
set of customizations to it: Gemfile, environments, test setup, views, git and database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func newLogger(w io.Writer) zerolog.Logger {
	return logging.New(w,
		logging.WithVerbose(verbose),
		logging.WithColor(!noColor),
		logging.WithJSON(logJSON),
	)
}
