package cli

import (
	"fmt"

	"github.com/ariel-frischer/janus/internal/changelog"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing record",
		Long: `Change fields of an existing record and rewrite the file.

Only the fields given on the command line change. A bullet flag replaces
the whole section; --clear empties a section. The id never changes.

Examples:
  janus edit 7f3c2a10 --title "Crash fixes"
  janus edit 7f3c2a10 --fix "null deref" --fix "lock leak"
  janus edit 7f3c2a10 --clear maintenance`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, a, args[0])
		},
	}
	addRecordFlags(cmd)
	cmd.Flags().StringArray("clear", nil, "Empty a section: features, bugfixes or maintenance (repeatable)")
	return cmd
}

func runEdit(cmd *cobra.Command, a *app, id string) error {
	patch, err := recordPatch(cmd)
	if err != nil {
		return err
	}

	cleared, _ := cmd.Flags().GetStringArray("clear")
	for _, name := range cleared {
		c, err := changelog.ParseCategory(name)
		if err != nil {
			return clierrors.NewArgumentError(fmt.Sprintf("invalid --clear: %v", err))
		}
		patch = patch.WithEntries(c, nil)
	}

	if patch.IsEmpty() {
		return clierrors.NothingToEdit(id)
	}

	s, path, err := a.openStore(cmd)
	if err != nil {
		return err
	}

	rec, err := s.Edit(id, patch)
	if err != nil {
		return clierrors.Classify(err, path)
	}
	a.journal("edit", rec, path)

	fmt.Fprintf(cmd.OutOrStdout(), "Updated record %s\n", rec.ID)
	return nil
}
