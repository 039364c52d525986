package store

import (
	"errors"
	"fmt"
	"io/fs"
)

// IOError reports a failure of the persistence backend itself.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s changelog: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s changelog %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// StoreInitError is returned by Open when the document could not be loaded
// or parsed. No Store is returned alongside it.
type StoreInitError struct {
	Err error
}

func (e *StoreInitError) Error() string {
	return fmt.Sprintf("opening changelog store: %v", e.Err)
}

func (e *StoreInitError) Unwrap() error {
	return e.Err
}

// PersistenceError is returned when a mutation could not be saved.
// The in-memory collection is left as it was before the mutation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SkippedRecordsError is returned by mutations on a store whose lenient load
// skipped malformed blocks. Saving would drop those blocks from the document.
type SkippedRecordsError struct {
	Op      string
	Skipped []error
}

func (e *SkippedRecordsError) Error() string {
	return fmt.Sprintf("refusing to %s: %d malformed record(s) skipped on load would be lost", e.Op, len(e.Skipped))
}

// Unwrap exposes the skipped block errors, so errors.As finds the
// *changelog.MalformedRecordError of each one.
func (e *SkippedRecordsError) Unwrap() []error {
	return e.Skipped
}

// IsNotExist reports whether err was caused by a missing changelog file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
