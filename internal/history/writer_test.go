package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ariel-frischer/janus/internal/changelog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryWriter_LogEntry(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setupStore  func(t *testing.T, stateDir string)
		maxEntries  int
		wantEntries int
	}{
		"log entry to empty history": {
			setupStore:  func(t *testing.T, stateDir string) {},
			maxEntries:  500,
			wantEntries: 1,
		},
		"log entry to existing history": {
			setupStore: func(t *testing.T, stateDir string) {
				history := &HistoryFile{
					Entries: []HistoryEntry{
						{Timestamp: time.Now(), Operation: "create", RecordID: "existing"},
					},
				}
				require.NoError(t, SaveHistory(stateDir, history))
			},
			maxEntries:  500,
			wantEntries: 2,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stateDir := t.TempDir()
			tc.setupStore(t, stateDir)

			writer := NewWriter(stateDir, tc.maxEntries)
			entry := HistoryEntry{
				Timestamp: time.Now(),
				Operation: "edit",
				RecordID:  "abc",
			}
			writer.LogEntry(entry)

			// Verify entry was logged
			history, err := LoadHistory(stateDir)
			require.NoError(t, err)
			assert.Len(t, history.Entries, tc.wantEntries)
		})
	}
}

func TestHistoryWriter_Pruning(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existingEntries int
		maxEntries      int
		wantEntries     int
		wantOldest      string // RecordID of oldest remaining entry
	}{
		"no pruning needed": {
			existingEntries: 5,
			maxEntries:      10,
			wantEntries:     6, // 5 existing + 1 new
			wantOldest:      "rec-0",
		},
		"prune oldest when max exceeded": {
			existingEntries: 10,
			maxEntries:      10,
			wantEntries:     10, // oldest removed, new added
			wantOldest:      "rec-1",
		},
		"prune multiple when well over max": {
			existingEntries: 12,
			maxEntries:      10,
			wantEntries:     10,
			wantOldest:      "rec-3",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stateDir := t.TempDir()

			// Create existing entries
			entries := make([]HistoryEntry, tc.existingEntries)
			for i := 0; i < tc.existingEntries; i++ {
				entries[i] = HistoryEntry{
					Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
					Operation: "create",
					RecordID:  fmt.Sprintf("rec-%d", i),
				}
			}
			history := &HistoryFile{Entries: entries}
			require.NoError(t, SaveHistory(stateDir, history))

			// Log new entry
			writer := NewWriter(stateDir, tc.maxEntries)
			writer.LogEntry(HistoryEntry{
				Timestamp: time.Now().Add(time.Hour),
				Operation: "delete",
				RecordID:  "new-rec",
			})

			// Verify
			loaded, err := LoadHistory(stateDir)
			require.NoError(t, err)
			assert.Len(t, loaded.Entries, tc.wantEntries)

			// Verify oldest entry
			if len(loaded.Entries) > 0 {
				assert.Equal(t, tc.wantOldest, loaded.Entries[0].RecordID)
			}

			// Verify newest entry is our new one
			assert.Equal(t, "new-rec", loaded.Entries[len(loaded.Entries)-1].RecordID)
		})
	}
}

func TestHistoryWriter_LogMutation(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	writer := NewWriter(stateDir, 500)
	fixed := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)
	writer.now = func() time.Time { return fixed }

	rec := changelog.Record{ID: "abc", Title: "Initial release"}
	writer.LogMutation("create", rec, "/repo/CHANGELOG.md")

	// Verify
	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)

	entry := history.Entries[0]
	assert.Equal(t, "create", entry.Operation)
	assert.Equal(t, "abc", entry.RecordID)
	assert.Equal(t, "Initial release", entry.Title)
	assert.Equal(t, "/repo/CHANGELOG.md", entry.Path)
	assert.True(t, fixed.Equal(entry.Timestamp))
}

func TestHistoryWriter_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	writer := NewWriter(stateDir, 100)

	// Run multiple goroutines writing concurrently
	var wg sync.WaitGroup
	numWriters := 10
	entriesPerWriter := 5

	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(writerID int) {
			defer wg.Done()
			for j := 0; j < entriesPerWriter; j++ {
				writer.LogEntry(HistoryEntry{
					Timestamp: time.Now(),
					Operation: "create",
					RecordID:  fmt.Sprintf("w%d-%d", writerID, j),
				})
			}
		}(i)
	}

	wg.Wait()

	// Writes through one Writer are serialized, so nothing is lost
	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	assert.Len(t, history.Entries, numWriters*entriesPerWriter)
}

func TestHistoryWriter_NonFatalErrors(t *testing.T) {
	t.Parallel()

	// A regular file where the state directory should be
	blocker := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	writer := NewWriter(filepath.Join(blocker, "nested"), 500)
	writer.Log = log

	// This should not panic, just log a warning
	writer.LogEntry(HistoryEntry{
		Timestamp: time.Now(),
		Operation: "delete",
	})

	assert.Contains(t, buf.String(), "failed to log history")
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	writer := NewWriter("/test/path", 100)

	assert.Equal(t, "/test/path", writer.StateDir)
	assert.Equal(t, 100, writer.MaxEntries)
}

func TestHistoryWriter_ZeroMaxEntries(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()

	// Zero max entries means unlimited
	writer := NewWriter(stateDir, 0)

	// Log 5 entries
	for i := 0; i < 5; i++ {
		writer.LogEntry(HistoryEntry{
			Timestamp: time.Now(),
			Operation: "edit",
		})
	}

	// All should be retained
	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	assert.Len(t, history.Entries, 5)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	entries := []HistoryEntry{
		{Operation: "create", RecordID: "a"},
		{Operation: "create", RecordID: "b"},
		{Operation: "edit", RecordID: "a"},
		{Operation: "delete", RecordID: "a"},
	}

	tests := map[string]struct {
		recordID string
		limit    int
		wantOps  []string
	}{
		"all":             {wantOps: []string{"create", "create", "edit", "delete"}},
		"by record":       {recordID: "a", wantOps: []string{"create", "edit", "delete"}},
		"limit keeps end": {recordID: "a", limit: 2, wantOps: []string{"edit", "delete"}},
		"no match":        {recordID: "zzz", wantOps: nil},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var ops []string
			for _, e := range Filter(entries, tc.recordID, tc.limit) {
				ops = append(ops, e.Operation)
			}
			assert.Equal(t, tc.wantOps, ops)
		})
	}
}

func TestLoadHistory_Missing(t *testing.T) {
	t.Parallel()

	history, err := LoadHistory(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, history.Entries)
	assert.Empty(t, history.Entries)
}

func TestClearHistory(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	writer := NewWriter(stateDir, 10)
	writer.LogEntry(HistoryEntry{Timestamp: time.Now(), Operation: "create", RecordID: "a"})

	require.NoError(t, ClearHistory(stateDir))

	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	assert.Empty(t, history.Entries)
}
