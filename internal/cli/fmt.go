package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

func newFmtCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the changelog in canonical form",
		Long: `Rewrite the changelog in canonical form: records newest first, one
blank line between sections, LF line endings, text before the first record
dropped.

With --lenient, malformed records are dropped from the rewritten file.

Examples:
  janus fmt             # Rewrite in place
  janus fmt --stdout    # Print the canonical document instead`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, a)
		},
	}
	cmd.Flags().Bool("stdout", false, "Write the canonical document to stdout instead of the file")
	return cmd
}

func runFmt(cmd *cobra.Command, a *app) error {
	s, path, err := a.openStore(cmd)
	if err != nil {
		return err
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		if _, err := s.WriteTo(cmd.OutOrStdout()); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		return nil
	}

	if err := s.Flush(); err != nil {
		return clierrors.Classify(err, path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Formatted %s (%d records)\n", path, s.Len())
	return nil
}
