// Package cli tests the history command for janus.
// Related: internal/cli/history.go
// Tags: cli, history, journal

package cli

import (
	"testing"
	"time"

	"github.com/ariel-frischer/janus/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(t *testing.T, stateDir string) {
	t.Helper()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, history.SaveHistory(stateDir, &history.HistoryFile{
		Entries: []history.HistoryEntry{
			{Timestamp: base, Operation: "create", RecordID: "a", Title: "Old"},
			{Timestamp: base.Add(time.Minute), Operation: "create", RecordID: "b", Title: "Newest"},
			{Timestamp: base.Add(2 * time.Minute), Operation: "edit", RecordID: "a", Title: "Older"},
		},
	}))
}

func TestHistory(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args      []string
		wantLines []string
		wantNot   []string
	}{
		"all entries": {
			args:      []string{"history"},
			wantLines: []string{"2024-06-01 10:00:00", "Old", "Newest", "Older"},
		},
		"filter by record": {
			args:      []string{"history", "--record", "a"},
			wantLines: []string{"Old", "Older"},
			wantNot:   []string{"Newest"},
		},
		"limit keeps most recent": {
			args:      []string{"history", "-n", "1"},
			wantLines: []string{"Older"},
			wantNot:   []string{"Newest"},
		},
		"no match": {
			args:      []string{"history", "--record", "zzz"},
			wantLines: []string{"No matching entries for record 'zzz'."},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			seedHistory(t, env.stateDir)

			out, _, err := env.run(tt.args...)
			require.NoError(t, err)
			for _, want := range tt.wantLines {
				assert.Contains(t, out, want)
			}
			for _, not := range tt.wantNot {
				assert.NotContains(t, out, not)
			}
		})
	}
}

func TestHistory_ClearAndEmpty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	seedHistory(t, env.stateDir)

	out, _, err := env.run("history", "--clear")
	require.NoError(t, err)
	assert.Equal(t, "History cleared.\n", out)

	out, _, err = env.run("history")
	require.NoError(t, err)
	assert.Equal(t, "No history available.\n", out)
}

func TestHistory_NegativeLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, _, err := env.run("history", "--limit", "-2")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestHistory_RecordsMutations(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t).withChangelog(threeRecordDoc)
	_, _, err := env.run("edit", "b", "--title", "Renamed")
	require.NoError(t, err)
	_, _, err = env.run("delete", "a")
	require.NoError(t, err)

	out, _, err := env.run("history")
	require.NoError(t, err)
	assert.Regexp(t, `edit\s+b\s+Renamed`, out)
	assert.Regexp(t, `delete\s+a\s+Old`, out)
}
