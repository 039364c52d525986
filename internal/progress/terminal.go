// Package progress adapts terminal output to what the terminal supports:
// symbol sets and the spinner shown while janus waits.
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes the terminal janus writes to.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols is the symbol set chosen for a terminal.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}

// DetectTerminalCapabilities detects terminal features and returns capabilities.
// Checks: stdout isatty, NO_COLOR env, JANUS_ASCII env, terminal width.
func DetectTerminalCapabilities() TerminalCapabilities {
	fd := int(os.Stdout.Fd())
	isTTY := term.IsTerminal(fd)

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}

	return capabilities(isTTY, width, os.Getenv)
}

func capabilities(isTTY bool, width int, getenv func(string) string) TerminalCapabilities {
	noColor := getenv("NO_COLOR") != ""
	forceASCII := getenv("JANUS_ASCII") == "1"

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the appropriate symbol set based on terminal capabilities.
// Unicode: ✓/✗ with braille spinner (set 14). ASCII: [OK]/[FAIL] with |/-\ spinner (set 9).
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // Unicode dots: ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // ASCII: | / - \
	}
}
