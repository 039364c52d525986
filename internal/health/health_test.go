// Package health_test tests the janus setup checks.
// Related: internal/health/health.go
// Tags: health, doctor, validation

package health

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/janus/internal/progress"
	"github.com/juju/fslock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalDoc = "[id]:a\n# Setup - 1/1/2023\n\nMaintenance:\n- init\n\n"

func TestCheckChangelog(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content     *string
		wantPassed  bool
		wantMessage string
	}{
		"missing": {
			wantMessage: "janus init",
		},
		"canonical": {
			content:     ptr(canonicalDoc),
			wantPassed:  true,
			wantMessage: "(1 records, 1 entries)",
		},
		"not canonical": {
			content:     ptr("preamble\n" + canonicalDoc),
			wantPassed:  true,
			wantMessage: "janus fmt",
		},
		"malformed": {
			content:     ptr("[id]:a\n# Setup\n"),
			wantMessage: "malformed",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "CHANGELOG.md")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			result := CheckChangelog(path)
			assert.Equal(t, "Changelog", result.Name)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Contains(t, result.Message, tt.wantMessage)
		})
	}
}

func TestCheckLock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	assert.True(t, CheckLock(path).Passed)

	held := fslock.New(path + ".lock")
	require.NoError(t, held.Lock())
	defer held.Unlock()

	result := CheckLock(path)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "held by another process")
}

func TestCheckStateDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "state")
	result := CheckStateDir(dir)
	assert.True(t, result.Passed)
	assert.DirExists(t, dir)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	result = CheckStateDir(filepath.Join(blocker, "state"))
	assert.False(t, result.Passed)
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(canonicalDoc), 0o644))

	report := RunHealthChecks(Options{
		ChangelogPath: path,
		StateDir:      filepath.Join(dir, "state"),
		Lock:          true,
		Dir:           dir,
	})
	assert.True(t, report.Passed)

	names := make([]string, len(report.Checks))
	for i, c := range report.Checks {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Git repository", "Changelog", "Changelog lock", "State directory"}, names)

	report = RunHealthChecks(Options{
		ChangelogPath: filepath.Join(dir, "missing.md"),
		StateDir:      filepath.Join(dir, "state"),
		Dir:           dir,
	})
	assert.False(t, report.Passed)
	assert.Len(t, report.Checks, 3)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{
		Checks: []CheckResult{
			{Name: "Changelog", Passed: true, Message: "ok"},
			{Name: "State directory", Passed: false, Message: "not writable"},
		},
	}

	tests := map[string]struct {
		symbols progress.ProgressSymbols
		want    string
	}{
		"unicode": {
			symbols: progress.SelectSymbols(progress.TerminalCapabilities{SupportsUnicode: true}),
			want:    "✓ Changelog: ok\n✗ State directory: not writable\n",
		},
		"ascii": {
			symbols: progress.SelectSymbols(progress.TerminalCapabilities{}),
			want:    "[OK] Changelog: ok\n[FAIL] State directory: not writable\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatReport(report, tt.symbols))
		})
	}
}

func ptr(s string) *string {
	return &s
}
