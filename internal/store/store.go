package store

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/ariel-frischer/janus/internal/changelog"
	"github.com/ariel-frischer/janus/internal/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IDGenerator returns a fresh record id. Uniqueness is assumed, not verified,
// beyond the store rejecting an id that is already in the collection.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

// Store is an in-memory changelog collection backed by a Backend.
//
// The collection is replaced wholesale on every mutation. Slices handed out
// by read methods are copies, so callers holding an earlier result never
// observe later mutations.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	records []changelog.Record

	newID   IDGenerator
	now     func() time.Time
	log     logrus.FieldLogger
	lenient bool

	// skipped holds the blocks a lenient load dropped. While it is non-empty
	// the collection is not the whole document and mutations are refused.
	skipped []error
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the id generator (default NewUUID).
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock overrides the clock used to default the created date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLenientParse makes Open skip malformed record blocks, logging a
// warning for each, instead of failing. A store that skipped anything is
// read-only: mutations return *SkippedRecordsError so the dropped blocks
// are never written over.
func WithLenientParse(lenient bool) Option {
	return func(s *Store) {
		s.lenient = lenient
	}
}

// Open loads and parses the document from backend.
// Any load or parse failure is returned as a *StoreInitError and no Store
// is returned.
func Open(backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		newID:   NewUUID,
		now:     time.Now,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	records, skipped, err := s.load()
	if err != nil {
		return nil, &StoreInitError{Err: err}
	}
	s.records = records
	s.skipped = skipped

	s.log.WithField("records", len(records)).Debug("changelog loaded")
	return s, nil
}

func (s *Store) load() ([]changelog.Record, []error, error) {
	text, err := s.backend.Load()
	if err != nil {
		return nil, nil, err
	}

	if !s.lenient {
		records, err := changelog.Parse(text)
		return records, nil, err
	}

	records, skipped := changelog.ParseLenient(text)
	for _, err := range skipped {
		s.log.WithError(err).Warn("skipping malformed record")
	}
	return records, skipped, nil
}

// Reload discards the in-memory collection and reads it again from the
// backend. On failure the current collection is kept.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, skipped, err := s.load()
	if err != nil {
		return fmt.Errorf("reloading changelog: %w", err)
	}
	s.records = records
	s.skipped = skipped
	s.log.WithField("records", len(records)).Debug("changelog reloaded")
	return nil
}

// Skipped returns the malformed blocks a lenient load left out.
func (s *Store) Skipped() []error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.skipped)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of the collection in its in-memory order.
func (s *Store) Records() []changelog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Sorted returns a copy of the collection in document order, newest first.
func (s *Store) Sorted() []changelog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return changelog.SortByCreated(cloneRecords(s.records))
}

// Get returns the record with the given id.
// Returns *changelog.RecordNotFoundError if it doesn't exist.
func (s *Store) Get(id string) (changelog.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return changelog.FindByID(s.records, id)
}

// Query returns the records matching every filter in q, newest first.
// No match yields an empty slice, not an error.
func (s *Store) Query(q changelog.Query) []changelog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return changelog.SortByCreated(changelog.Filter(s.records, q))
}

// Text returns the serialized document for the current collection.
func (s *Store) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return changelog.Serialize(s.records)
}

// WriteTo writes the serialized document to w.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.Text())
	return int64(n), err
}

// Create adds a record built from p. The id comes from the id generator and
// Created defaults to today when p leaves it unset. Returns the new record.
func (s *Store) Create(p changelog.Patch) (changelog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable("create"); err != nil {
		return changelog.Record{}, err
	}

	rec := p.Apply(changelog.Record{
		ID:      s.newID(),
		Created: changelog.DateOf(s.now()),
	})

	if _, err := changelog.FindByID(s.records, rec.ID); err == nil {
		return changelog.Record{}, &changelog.ValidationError{
			Field:   "id",
			Message: fmt.Sprintf("generated id %q already exists", rec.ID),
		}
	}
	if err := changelog.ValidateRecord(rec); err != nil {
		return changelog.Record{}, err
	}

	next := append(cloneRecords(s.records), rec)
	if err := s.commit("create", next); err != nil {
		return changelog.Record{}, err
	}

	s.log.WithFields(logrus.Fields{"id": rec.ID, "title": rec.Title}).Debug("record created")
	return rec.Clone(), nil
}

// Edit merges p over the record with the given id. Supplied fields win and
// the id never changes. Returns the updated record, or
// *changelog.RecordNotFoundError if no record has that id.
func (s *Store) Edit(id string, p changelog.Patch) (changelog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable("edit"); err != nil {
		return changelog.Record{}, err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return changelog.Record{}, &changelog.RecordNotFoundError{ID: id}
	}

	updated := p.Apply(s.records[idx])
	if err := changelog.ValidateRecord(updated); err != nil {
		return changelog.Record{}, err
	}

	next := cloneRecords(s.records)
	next[idx] = updated
	if err := s.commit("edit", next); err != nil {
		return changelog.Record{}, err
	}

	s.log.WithField("id", id).Debug("record edited")
	return updated.Clone(), nil
}

// Delete removes the record with the given id and reports whether it
// existed. Deleting an absent id is not an error: the unchanged document is
// still saved once.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable("delete"); err != nil {
		return false, err
	}

	next := make([]changelog.Record, 0, len(s.records))
	found := false
	for _, r := range s.records {
		if r.ID == id {
			found = true
			continue
		}
		next = append(next, r.Clone())
	}

	if err := s.commit("delete", next); err != nil {
		return false, err
	}

	s.log.WithFields(logrus.Fields{"id": id, "found": found}).Debug("record deleted")
	return found, nil
}

// Flush rewrites the backend from the current collection. Used to normalize
// a document into canonical form.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable("flush"); err != nil {
		return err
	}
	return s.commit("flush", cloneRecords(s.records))
}

// writable refuses op when a lenient load skipped blocks. Callers must hold s.mu.
func (s *Store) writable(op string) error {
	if len(s.skipped) == 0 {
		return nil
	}
	return &SkippedRecordsError{Op: op, Skipped: slices.Clone(s.skipped)}
}

// commit serializes next and saves it, swapping it in only after the save
// succeeds. Callers must hold s.mu.
func (s *Store) commit(op string, next []changelog.Record) error {
	text := changelog.Serialize(next)
	if err := s.backend.Save(text); err != nil {
		s.log.WithError(err).WithField("op", op).Error("saving changelog failed")
		return &PersistenceError{Op: op, Err: err}
	}
	s.records = next
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(r changelog.Record) bool {
		return r.ID == id
	})
}

func cloneRecords(records []changelog.Record) []changelog.Record {
	out := make([]changelog.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
