// Package history keeps a YAML journal of changelog mutations.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HistoryFileName is the journal file inside the state directory.
const HistoryFileName = "history.yaml"

// HistoryFile is the on-disk journal.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// HistoryEntry records one changelog mutation.
type HistoryEntry struct {
	Timestamp time.Time `yaml:"timestamp"`
	Operation string    `yaml:"operation"`
	RecordID  string    `yaml:"record_id,omitempty"`
	Title     string    `yaml:"title,omitempty"`
	Path      string    `yaml:"path,omitempty"`
}

// HistoryPath returns the journal location for stateDir.
func HistoryPath(stateDir string) string {
	return filepath.Join(stateDir, HistoryFileName)
}

// LoadHistory reads the journal. A missing file yields an empty history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(HistoryPath(stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &HistoryFile{Entries: []HistoryEntry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	if history.Entries == nil {
		history.Entries = []HistoryEntry{}
	}
	return &history, nil
}

// SaveHistory writes the journal using temp file + rename.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	path := HistoryPath(stateDir)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ClearHistory removes every entry.
func ClearHistory(stateDir string) error {
	return SaveHistory(stateDir, &HistoryFile{Entries: []HistoryEntry{}})
}
