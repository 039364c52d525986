package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/ariel-frischer/janus/internal/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "View the log of changelog mutations",
		Long:         `View a log of every record created, edited or deleted through janus, with timestamp, operation, record id and title.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, a.cfg.StateDir)
		},
	}
	cmd.Flags().StringP("record", "r", "", "Filter by record id")
	cmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	cmd.Flags().BoolP("clear", "c", false, "Clear all history")
	return cmd
}

// runHistory runs the history command against stateDir.
func runHistory(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	recordFilter, _ := cmd.Flags().GetString("record")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return clierrors.NewArgumentError(fmt.Sprintf("limit must be positive, got %d", limit))
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "clearing history")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "loading history",
			"Remove "+history.HistoryPath(stateDir)+" if it is corrupt")
	}

	entries := history.Filter(histFile.Entries, recordFilter, limit)

	if len(entries) == 0 {
		if recordFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No matching entries for record '%s'.\n", recordFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		}
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

// displayEntries formats and displays history entries.
func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()

	cyan := color.New(color.FgCyan).SprintFunc()
	opColors := map[string]func(a ...interface{}) string{
		"create": color.New(color.FgGreen).SprintFunc(),
		"edit":   color.New(color.FgYellow).SprintFunc(),
		"delete": color.New(color.FgRed).SprintFunc(),
	}

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		op := fmt.Sprintf("%-6s", entry.Operation)
		if paint, ok := opColors[entry.Operation]; ok {
			op = paint(op)
		}

		id := entry.RecordID
		if id == "" {
			id = "-"
		}

		fmt.Fprintf(out, "%s  %s  %-12s  %s\n", cyan(timestamp), op, id, entry.Title)
	}
}
