package history

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ariel-frischer/janus/internal/changelog"
	"github.com/sirupsen/logrus"
)

// Writer provides thread-safe history logging with automatic pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain (0 = unlimited).
	MaxEntries int
	// Log receives write failures. Nil writes a warning to stderr.
	Log logrus.FieldLogger

	mu  sync.Mutex
	now func() time.Time
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
		now:        time.Now,
	}
}

// LogEntry adds a new entry to the history file.
// It loads the existing history, appends the new entry, prunes if needed, and saves.
// Errors are non-fatal: they are logged and don't cause command failures.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.logEntryInternal(entry); err != nil {
		if w.Log != nil {
			w.Log.WithError(err).Warn("failed to log history")
			return
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to log history: %v\n", err)
	}
}

// logEntryInternal handles the actual logging logic.
func (w *Writer) logEntryInternal(entry HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	// Prune oldest entries if over limit
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	return nil
}

// LogMutation is a convenience method to log a changelog mutation.
func (w *Writer) LogMutation(operation string, rec changelog.Record, path string) {
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	w.LogEntry(HistoryEntry{
		Timestamp: now(),
		Operation: operation,
		RecordID:  rec.ID,
		Title:     rec.Title,
		Path:      path,
	})
}

// Filter returns the entries for recordID (all when empty), keeping only the
// last limit of them when limit > 0.
func Filter(entries []HistoryEntry, recordID string, limit int) []HistoryEntry {
	var result []HistoryEntry
	for _, entry := range entries {
		if recordID == "" || entry.RecordID == recordID {
			result = append(result, entry)
		}
	}

	// Apply limit (most recent entries)
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}
