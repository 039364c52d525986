package cli

import (
	"fmt"

	"github.com/ariel-frischer/janus/internal/changelog"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

// categoryFlags maps each record category to the flag that supplies its bullets.
var categoryFlags = []struct {
	name     string
	category changelog.Category
	usage    string
}{
	{"feature", changelog.Features, "Features Added bullet (repeatable)"},
	{"fix", changelog.BugFixes, "Bug Fixes bullet (repeatable)"},
	{"maintenance", changelog.Maintenance, "Maintenance bullet (repeatable)"},
}

// addRecordFlags registers the field flags shared by add and edit.
func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "Record title")
	cmd.Flags().StringP("date", "d", "", "Creation date as M/D/YYYY")
	for _, f := range categoryFlags {
		cmd.Flags().StringArray(f.name, nil, f.usage)
	}
}

// recordPatch builds a patch from the field flags that were set on cmd.
func recordPatch(cmd *cobra.Command) (changelog.Patch, error) {
	var p changelog.Patch

	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		p = p.WithTitle(title)
	}

	if cmd.Flags().Changed("date") {
		value, _ := cmd.Flags().GetString("date")
		d, err := parseDateFlag("date", value)
		if err != nil {
			return p, err
		}
		p = p.WithCreated(d)
	}

	for _, f := range categoryFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		entries, _ := cmd.Flags().GetStringArray(f.name)
		p = p.WithEntries(f.category, entries)
	}

	return p, nil
}

// parseDateFlag parses a M/D/YYYY flag value. An empty value is the zero date.
func parseDateFlag(name, value string) (changelog.Date, error) {
	if value == "" {
		return changelog.Date{}, nil
	}
	d, err := changelog.ParseDate(value)
	if err != nil {
		e := clierrors.NewArgumentError(
			fmt.Sprintf("invalid --%s: %v", name, err),
			"Dates use the M/D/YYYY form, e.g. 3/1/2024",
		)
		e.Err = err
		return changelog.Date{}, e
	}
	return d, nil
}
