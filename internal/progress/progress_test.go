package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilities(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		isTTY bool
		env   map[string]string
		want  TerminalCapabilities
	}{
		"tty": {
			isTTY: true,
			want:  TerminalCapabilities{IsTTY: true, SupportsColor: true, SupportsUnicode: true, Width: 100},
		},
		"no color": {
			isTTY: true,
			env:   map[string]string{"NO_COLOR": "1"},
			want:  TerminalCapabilities{IsTTY: true, SupportsUnicode: true, Width: 100},
		},
		"ascii": {
			isTTY: true,
			env:   map[string]string{"JANUS_ASCII": "1"},
			want:  TerminalCapabilities{IsTTY: true, SupportsColor: true, Width: 100},
		},
		"pipe": {
			isTTY: false,
			want:  TerminalCapabilities{Width: 100},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, capabilities(tt.isTTY, 100, getenv))
		})
	}
}

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	unicode := SelectSymbols(TerminalCapabilities{IsTTY: true, SupportsUnicode: true})
	assert.Equal(t, "✓", unicode.Checkmark)
	assert.Equal(t, 14, unicode.SpinnerSet)

	ascii := SelectSymbols(TerminalCapabilities{})
	assert.Equal(t, "[OK]", ascii.Checkmark)
	assert.Equal(t, "[FAIL]", ascii.Failure)
	assert.Equal(t, 9, ascii.SpinnerSet)
}

func TestSpinner_NoTTYIsNoop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sp := NewSpinner(&buf, TerminalCapabilities{}, " waiting")
	assert.False(t, sp.Active())
	sp.Start()
	sp.Stop()
	assert.Empty(t, buf.String())

	var nilSpinner *Spinner
	assert.NotPanics(t, func() {
		nilSpinner.Start()
		nilSpinner.Stop()
	})
}

func TestSpinner_TTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sp := NewSpinner(&buf, TerminalCapabilities{IsTTY: true, SupportsUnicode: true}, " waiting")
	assert.True(t, sp.Active())
}
