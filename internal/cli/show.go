package cli

import (
	"fmt"

	"github.com/ariel-frischer/janus/internal/changelog"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display one record",
		Long: `Display the record with the given id.

Examples:
  janus show 7f3c2a10       # Formatted record
  janus show 7f3c2a10 --raw # Record block as stored in the file`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, a, args[0])
		},
	}
	cmd.Flags().Bool("raw", false, "Print the record in changelog file format")
	return cmd
}

func runShow(cmd *cobra.Command, a *app, id string) error {
	s, path, err := a.openStore(cmd)
	if err != nil {
		return err
	}

	rec, err := s.Get(id)
	if err != nil {
		return clierrors.Classify(err, path)
	}

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Fprint(cmd.OutOrStdout(), changelog.MarshalRecord(rec))
		return nil
	}

	if err := changelog.FormatRecord(rec, cmd.OutOrStdout(), a.formatOptions(cmd)); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}
