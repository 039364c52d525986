package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/ariel-frischer/janus/internal/health"
	"github.com/ariel-frischer/janus/internal/progress"
	"github.com/spf13/cobra"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that janus can read and write its files",
		Long: `Check the janus setup: the git repository used for the default changelog
location, the changelog itself, its lock file and the state directory.

Exits 1 if any check fails.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, a)
		},
	}
}

func runDoctor(cmd *cobra.Command, a *app) error {
	path, err := a.changelogPath(cmd)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	report := health.RunHealthChecks(health.Options{
		ChangelogPath: path,
		StateDir:      a.cfg.StateDir,
		Lock:          a.cfg.Lock,
	})

	caps := progress.DetectTerminalCapabilities()
	if a.plain(cmd) {
		caps.SupportsUnicode = false
	}
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report, progress.SelectSymbols(caps)))

	if !report.Passed {
		return NewExitError(ExitFailure)
	}
	return nil
}
