package cli

import (
	"fmt"

	"github.com/ariel-frischer/janus/internal/changelog"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List changelog records, newest first",
		Long: `List changelog records matching every given filter, newest first.

--contains matches the title or any bullet, case-sensitively. --since and
--until bound the creation date inclusively.

Examples:
  janus list                          # All records
  janus list --last 5                 # 5 most recent records
  janus list --contains crash         # Records mentioning "crash"
  janus list --since 1/1/2024         # Records created in 2024 or later
  janus list --oneline                # One summary line per record
  janus list --raw                    # Records in changelog file format`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, a)
		},
	}

	cmd.Flags().String("id", "", "Only the record with this id")
	cmd.Flags().StringP("contains", "c", "", "Only records whose title or bullets contain this text")
	cmd.Flags().String("since", "", "Only records created on or after M/D/YYYY")
	cmd.Flags().String("until", "", "Only records created on or before M/D/YYYY")
	cmd.Flags().IntP("last", "n", 0, "Show only the N most recent matches (0 = all)")
	cmd.Flags().Bool("oneline", false, "One summary line per record")
	cmd.Flags().Bool("raw", false, "Print records in changelog file format")
	cmd.MarkFlagsMutuallyExclusive("oneline", "raw")
	return cmd
}

func runList(cmd *cobra.Command, a *app) error {
	q, err := listQuery(cmd)
	if err != nil {
		return err
	}

	last, _ := cmd.Flags().GetInt("last")
	if last < 0 {
		return clierrors.NewArgumentError(fmt.Sprintf("--last must be positive, got %d", last))
	}

	s, _, err := a.openStore(cmd)
	if err != nil {
		return err
	}

	records := changelog.GetLastN(s.Query(q), last)
	out := cmd.OutOrStdout()

	if len(records) == 0 {
		if q.IsEmpty() {
			fmt.Fprintln(out, "No records.")
		} else {
			fmt.Fprintln(out, "No matching records.")
		}
		return nil
	}

	oneline, _ := cmd.Flags().GetBool("oneline")
	raw, _ := cmd.Flags().GetBool("raw")
	opts := a.formatOptions(cmd)

	switch {
	case raw:
		fmt.Fprint(out, changelog.Serialize(records))
	case oneline:
		for _, r := range records {
			fmt.Fprintln(out, changelog.FormatRecordSummary(r, opts))
		}
	default:
		if err := changelog.FormatRecords(records, out, opts); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
	}
	return nil
}

// listQuery builds the query from the filter flags.
func listQuery(cmd *cobra.Command) (changelog.Query, error) {
	var q changelog.Query
	q.ID, _ = cmd.Flags().GetString("id")
	q.Contains, _ = cmd.Flags().GetString("contains")

	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")

	var err error
	if q.Since, err = parseDateFlag("since", since); err != nil {
		return q, err
	}
	if q.Until, err = parseDateFlag("until", until); err != nil {
		return q, err
	}

	if !q.Since.IsZero() && !q.Until.IsZero() && q.Since.After(q.Until) {
		return q, clierrors.NewArgumentError(
			fmt.Sprintf("--since %s is after --until %s", q.Since, q.Until),
		)
	}
	return q, nil
}
