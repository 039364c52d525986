package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	causeText   = color.New(color.Faint).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError renders err for the terminal: the headline, the cause chain
// one level per line, usage and remediation. plain drops colors and uses
// ASCII bullets, matching --plain listings.
func FormatError(err *CLIError, plain bool) string {
	if err == nil {
		return ""
	}

	style := func(f func(a ...interface{}) string, s string) string {
		if plain {
			return s
		}
		return f(s)
	}
	mark := "•"
	if plain {
		mark = "-"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		style(errorLabel, "Error"), style(categoryFmt, err.Category.String()), style(errorMsg, err.Message))

	if causes := causeChain(err); len(causes) > 0 {
		sb.WriteString("\nCaused by:\n")
		for _, c := range causes {
			fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("  ", c.depth), style(causeText, c.text))
		}
	}

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", style(usageLabel, "Usage: "), style(usageText, err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", style(fixLabel, "To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", style(bullet, mark), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError, plain bool) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err, plain))
}

type cause struct {
	depth int
	text  string
}

// causeChain splits err.Err into one entry per wrapping level, keeping only
// the text each level adds. Errors joining several causes list each one a
// level deeper. Nothing is returned when the cause repeats the message, as
// it does for errors built with Wrap.
func causeChain(err *CLIError) []cause {
	if err.Err == nil || err.Err.Error() == err.Message {
		return nil
	}
	return appendCauses(nil, err.Err, 1)
}

func appendCauses(causes []cause, e error, depth int) []cause {
	for e != nil {
		var next error
		var children []error
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			children = u.Unwrap()
		case interface{ Unwrap() error }:
			next = u.Unwrap()
		}

		text := e.Error()
		if next != nil {
			text = strings.TrimSuffix(text, ": "+next.Error())
		}
		joined := len(children) > 0 && text == joinedText(children)
		if text != "" && !joined && (next == nil || text != next.Error()) {
			causes = append(causes, cause{depth: depth, text: text})
			depth++
		}
		for _, c := range children {
			causes = appendCauses(causes, c, depth)
		}
		e = next
	}
	return causes
}

// joinedText is what errors.Join reports for children.
func joinedText(children []error) string {
	texts := make([]string, 0, len(children))
	for _, c := range children {
		if c != nil {
			texts = append(texts, c.Error())
		}
	}
	return strings.Join(texts, "\n")
}
