package progress

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner is an activity indicator that only draws on a TTY.
// A nil or non-TTY Spinner is a no-op, so callers never branch on it.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a stopped spinner writing to w with the given suffix.
func NewSpinner(w io.Writer, caps TerminalCapabilities, suffix string) *Spinner {
	if !caps.IsTTY {
		return &Spinner{}
	}

	symbols := SelectSymbols(caps)
	s := spinner.New(spinner.CharSets[symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(w))
	s.Suffix = suffix
	return &Spinner{s: s}
}

// Active reports whether the spinner draws anything.
func (sp *Spinner) Active() bool {
	return sp != nil && sp.s != nil
}

// Start begins drawing. Calling Start on a running spinner is harmless.
func (sp *Spinner) Start() {
	if sp.Active() {
		sp.s.Start()
	}
}

// Stop erases the spinner line. Output written after Stop starts on a clean line.
func (sp *Spinner) Stop() {
	if sp.Active() {
		sp.s.Stop()
	}
}
