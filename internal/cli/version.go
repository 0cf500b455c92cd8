package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/suspenders-cli/suspenders/internal/branding"
	"github.com/suspenders-cli/suspenders/internal/config"
	"github.com/suspenders-cli/suspenders/internal/release"
)

var (
	versionShort bool
	versionJSON  bool
	versionCheck bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		if versionCheck {
			return checkRelease(cmd.Context(), out, release.NewChecker(buildVersion), config.Dir(), time.Now())
		}
		return nil
	},
}

// checkRelease reports the latest release, reusing a stored result that
// is less than a day old.
func checkRelease(ctx context.Context, w io.Writer, checker *release.Checker, dir string, now time.Time) error {
	st, err := release.LoadStatus(dir)
	if err != nil || st.Stale(now, release.MaxAge) || st.Current != buildVersion {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st, err = checker.Refresh(ctx, dir)
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
	}

	if !st.UpdateAvailable {
		fmt.Fprintf(w, "Up to date (latest release: %s)\n", st.Latest)
		return nil
	}
	release.Notice(w, dir, buildVersion)
	return nil
}
