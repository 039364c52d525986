package cli

import (
	"fmt"

	"github.com/ariel-frischer/janus/internal/changelog"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a record from the changelog",
		Long: `Remove the record with the given id and rewrite the file.

Deleting an id that does not exist is not an error; the file is still
rewritten in canonical form.

Examples:
  janus delete 7f3c2a10`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, a, args[0])
		},
	}
}

func runDelete(cmd *cobra.Command, a *app, id string) error {
	s, path, err := a.openStore(cmd)
	if err != nil {
		return err
	}

	// Fetched first so the journal can record the title.
	rec, getErr := s.Get(id)

	found, err := s.Delete(id)
	if err != nil {
		return clierrors.Classify(err, path)
	}

	out := cmd.OutOrStdout()
	if !found || getErr != nil {
		fmt.Fprintf(out, "No record with id %s; nothing deleted.\n", id)
		return nil
	}

	a.journal("delete", rec, path)
	fmt.Fprintf(out, "Deleted record %s (%s)\n", id, changelog.FormatDate(rec.Created))
	return nil
}
