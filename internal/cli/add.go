package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record to the changelog",
		Long: `Add a record to the changelog and rewrite the file.

The record gets a fresh id. The creation date defaults to today.
Bullet flags may be repeated; each occurrence adds one bullet.

Examples:
  janus add --title "Initial setup" --feature "project skeleton"
  janus add -t "Crash fixes" --fix "null deref on empty file" --fix "lock leak"
  janus add -t "Backfill" --date 1/15/2023 --maintenance "bump deps"`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, a)
		},
	}
	addRecordFlags(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func runAdd(cmd *cobra.Command, a *app) error {
	patch, err := recordPatch(cmd)
	if err != nil {
		return err
	}

	s, path, err := a.openStore(cmd)
	if err != nil {
		return err
	}

	rec, err := s.Create(patch)
	if err != nil {
		return clierrors.Classify(err, path)
	}
	a.journal("create", rec, path)

	fmt.Fprintf(cmd.OutOrStdout(), "Created record %s\n", rec.ID)
	return nil
}
