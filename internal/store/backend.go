package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/juju/fslock"
)

// Backend loads and saves the whole changelog document.
type Backend interface {
	// Load returns the full document text.
	Load() (string, error)
	// Save replaces the full document text.
	Save(text string) error
}

// DefaultLockTimeout bounds how long FileBackend waits for the lock file.
const DefaultLockTimeout = 5 * time.Second

// ErrExists is returned by Init when the changelog file already exists.
var ErrExists = errors.New("changelog file already exists")

// FileBackend persists the document to a single file.
type FileBackend struct {
	// Path is the changelog file.
	Path string
	// Lock holds an advisory lock on Path+".lock" during each Load and Save.
	Lock bool
	// LockTimeout bounds the wait for the lock (0 = DefaultLockTimeout).
	LockTimeout time.Duration
}

// NewFileBackend creates a backend for the given path with locking enabled.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{
		Path:        path,
		Lock:        true,
		LockTimeout: DefaultLockTimeout,
	}
}

// LockPath returns the path of the advisory lock file.
func (b *FileBackend) LockPath() string {
	return b.Path + ".lock"
}

// Load reads the whole file. A missing file is reported before any lock is
// taken, so reading never creates the lock file or its directory.
func (b *FileBackend) Load() (string, error) {
	if _, err := os.Stat(b.Path); err != nil {
		return "", &IOError{Op: "read", Path: b.Path, Err: err}
	}

	unlock, err := b.acquire()
	if err != nil {
		return "", &IOError{Op: "read", Path: b.Path, Err: err}
	}
	defer unlock()

	data, err := os.ReadFile(b.Path)
	if err != nil {
		return "", &IOError{Op: "read", Path: b.Path, Err: err}
	}
	return string(data), nil
}

// Save replaces the file contents atomically, creating the directory if needed.
func (b *FileBackend) Save(text string) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return &IOError{Op: "write", Path: b.Path, Err: fmt.Errorf("creating directory: %w", err)}
	}

	unlock, err := b.acquire()
	if err != nil {
		return &IOError{Op: "write", Path: b.Path, Err: err}
	}
	defer unlock()

	if err := atomicWriteToFile(b.Path, []byte(text)); err != nil {
		return &IOError{Op: "write", Path: b.Path, Err: err}
	}
	return nil
}

// Exists reports whether the changelog file is present.
func (b *FileBackend) Exists() bool {
	_, err := os.Stat(b.Path)
	return err == nil
}

// Init creates an empty changelog file. Returns ErrExists if the file is
// already present and force is false.
func (b *FileBackend) Init(force bool) error {
	if b.Exists() && !force {
		return &IOError{Op: "create", Path: b.Path, Err: ErrExists}
	}
	return b.Save("")
}

// acquire takes the advisory lock if enabled and returns its release func.
func (b *FileBackend) acquire() (func(), error) {
	if !b.Lock {
		return func() {}, nil
	}

	timeout := b.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	lock := fslock.New(b.LockPath())
	if err := lock.LockWithTimeout(timeout); err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", b.LockPath(), err)
	}

	return func() { _ = lock.Unlock() }, nil
}

// atomicWriteToFile writes data to a uniquely named temp file beside path
// and renames it over path, so readers see the old or the new document and
// concurrent writers never share a temp file. An existing file keeps its mode.
func atomicWriteToFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// MemoryBackend keeps the document in memory. It records every save and can
// be primed with errors, which makes it useful for dry runs and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	text    string
	saves   []string
	loadErr error
	saveErr error
}

// NewMemoryBackend creates a backend whose document starts as text.
func NewMemoryBackend(text string) *MemoryBackend {
	return &MemoryBackend{text: text}
}

// Load returns the current document text.
func (m *MemoryBackend) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return "", &IOError{Op: "read", Err: m.loadErr}
	}
	return m.text, nil
}

// Save records and stores text.
func (m *MemoryBackend) Save(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return &IOError{Op: "write", Err: m.saveErr}
	}
	m.text = text
	m.saves = append(m.saves, text)
	return nil
}

// Text returns the last saved (or initial) document.
func (m *MemoryBackend) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Saves returns every successfully saved document, oldest first.
func (m *MemoryBackend) Saves() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.saves...)
}

// FailLoad makes subsequent Loads fail with err (nil clears it).
func (m *MemoryBackend) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes subsequent Saves fail with err (nil clears it).
func (m *MemoryBackend) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}
