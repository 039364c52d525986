package changelog

import (
	"fmt"
	"strings"
)

// RecordNotFoundError is returned when a requested record id doesn't exist.
type RecordNotFoundError struct {
	ID string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record %q not found", e.ID)
}

// Query selects records. Every non-zero field must match (conjunction);
// the zero Query matches everything.
type Query struct {
	// ID matches the record id exactly.
	ID string
	// Contains matches case-sensitively against the title or any bullet.
	Contains string
	// Since and Until bound Created inclusively. Zero means unbounded.
	Since Date
	Until Date
}

// IsEmpty reports whether the query has no filters.
func (q Query) IsEmpty() bool {
	return q.ID == "" && q.Contains == "" && q.Since.IsZero() && q.Until.IsZero()
}

// Matches reports whether r satisfies every filter in q.
func (q Query) Matches(r Record) bool {
	if q.ID != "" && r.ID != q.ID {
		return false
	}
	if !q.Since.IsZero() && r.Created.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && r.Created.After(q.Until) {
		return false
	}
	if q.Contains != "" && !recordContains(r, q.Contains) {
		return false
	}
	return true
}

func recordContains(r Record, s string) bool {
	if strings.Contains(r.Title, s) {
		return true
	}
	for _, c := range Categories() {
		for _, e := range r.Entries(c) {
			if strings.Contains(e, s) {
				return true
			}
		}
	}
	return false
}

// Filter returns copies of the records matching q, in input order.
// The result is empty, never nil, when nothing matches.
func Filter(records []Record, q Query) []Record {
	out := []Record{}
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// FindByID returns the record with the given id.
// Returns RecordNotFoundError if no record has that id.
func FindByID(records []Record, id string) (Record, error) {
	for _, r := range records {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return Record{}, &RecordNotFoundError{ID: id}
}

// GetLastN returns the first n records of the slice.
// If n is zero or negative, or larger than the slice, all records are returned.
func GetLastN(records []Record, n int) []Record {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}

// EntryCount returns the total number of bullets across all records.
func EntryCount(records []Record) int {
	count := 0
	for _, r := range records {
		count += r.Count()
	}
	return count
}
