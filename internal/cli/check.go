package cli

import (
	"fmt"

	"github.com/ariel-frischer/janus/internal/changelog"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the changelog parses and is in canonical form",
		Long: `Verify that the changelog parses and is byte-for-byte what janus would
write for the records it contains.

Exits 1 when the file is malformed or not canonical, so it can gate CI.
--lenient does not apply; every record must parse.

Examples:
  janus check
  janus check -f docs/CHANGES.md`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, a)
		},
	}
}

func runCheck(cmd *cobra.Command, a *app) error {
	path, err := a.changelogPath(cmd)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	text, err := a.backend(path).Load()
	if err != nil {
		return clierrors.Classify(err, path)
	}

	canonical, err := changelog.IsCanonical(text)
	if err != nil {
		return clierrors.Classify(err, path)
	}
	if !canonical {
		return clierrors.NotCanonical(path)
	}

	records, err := changelog.Parse(text)
	if err != nil {
		return clierrors.Classify(err, path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d records, %d entries)\n",
		path, len(records), changelog.EntryCount(records))
	return nil
}
