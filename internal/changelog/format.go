package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = [categoryCount]CategoryStyle{
	Features:    {Color: color.New(color.FgGreen), Icon: "✓"},
	BugFixes:    {Color: color.New(color.FgYellow), Icon: "⚡"},
	Maintenance: {Color: color.New(color.FgBlue), Icon: "~"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool      // Disable colors, icons and relative ages
	MaxWidth int       // Maximum line width (0 = auto-detect)
	Now      time.Time // Reference time for relative ages (zero = time.Now)
}

// FormatRecords writes records to the writer with terminal styling,
// separated by blank lines.
func FormatRecords(records []Record, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i, r := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := formatRecord(r, w, opts, width); err != nil {
			return fmt.Errorf("formatting record %s: %w", r.ID, err)
		}
	}

	return nil
}

// FormatRecord writes a single record to the writer.
func FormatRecord(r Record, w io.Writer, opts FormatOptions) error {
	return formatRecord(r, w, opts, resolveWidth(opts.MaxWidth))
}

func formatRecord(r Record, w io.Writer, opts FormatOptions, width int) error {
	if err := writeRecordHeader(r, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, c := range Categories() {
		entries := r.Entries(c)
		if len(entries) == 0 {
			continue
		}
		if err := writeCategorySection(c, entries, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeRecordHeader writes the title line and the id/date line.
func writeRecordHeader(r Record, w io.Writer, opts FormatOptions) error {
	date := FormatDate(r.Created)

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n   %s  %s\n", r.Title, date, r.ID)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	age := humanize.RelTime(r.Created.Time(), referenceTime(opts), "ago", "from now")
	_, err := fmt.Fprintf(w, "## %s\n   %s (%s)  %s\n", bold(r.Title), date, age, faint(r.ID))
	return err
}

func referenceTime(opts FormatOptions) time.Time {
	if opts.Now.IsZero() {
		return time.Now()
	}
	return opts.Now
}

// writeCategorySection writes a single category with its entries.
func writeCategorySection(c Category, entries []string, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[c]

	if err := writeCategoryHeader(c, style, w, opts); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := writeEntry(entry, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeCategoryHeader writes the category header line.
func writeCategoryHeader(c Category, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", c.Label())
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(c.Label()))
	return err
}

// writeEntry writes a single bullet with optional wrapping.
func writeEntry(text string, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatRecordSummary returns a brief one-line summary of a record.
func FormatRecordSummary(r Record, opts FormatOptions) string {
	title := truncateText(r.Title, 60)
	id := truncateText(r.ID, 11)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s (%s)", r.ID, title, FormatDate(r.Created))
	}

	faint := color.New(color.Faint).SprintFunc()
	return fmt.Sprintf("%s %s (%s)", faint(id), title, FormatDate(r.Created))
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
