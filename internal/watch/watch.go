// Package watch re-runs a callback whenever a single file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/janus/internal/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDebounce     = 150 * time.Millisecond
	defaultPollInterval = time.Second
)

// Watcher reports changes to one file. The parent directory is watched
// rather than the file, so atomic replace-by-rename is seen as a change.
type Watcher struct {
	path     string
	debounce time.Duration
	poll     time.Duration
	log      logrus.FieldLogger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before the callback runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithPollInterval sets the backup stat interval for missed events.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.poll = d
	}
}

// WithLogger sets the logger for watcher errors.
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// New creates a Watcher for path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		debounce: defaultDebounce,
		poll:     defaultPollInterval,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Watch calls onChange once immediately and again after each burst of
// changes settles. It returns nil when ctx is cancelled, or the first error
// from onChange or the underlying watcher.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	if err := onChange(); err != nil {
		return err
	}

	changes := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.collect(ctx, fsw, changes)
	})
	g.Go(func() error {
		return w.dispatch(ctx, changes, onChange)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// collect turns fsnotify events and stat polling into change signals.
func (w *Watcher) collect(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- struct{}) error {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	last := w.stat()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.log.WithField("op", event.Op.String()).Debug("changelog event")
			last = w.stat()
			notify(changes)
		case <-ticker.C:
			if cur := w.stat(); cur != last {
				last = cur
				notify(changes)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			// Polling covers missed events
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

// dispatch runs onChange once changes have been quiet for the debounce period.
func (w *Watcher) dispatch(ctx context.Context, changes <-chan struct{}, onChange func() error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}

// fileState is what polling compares between ticks.
type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

func (w *Watcher) stat() fileState {
	info, err := os.Stat(w.path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}
}

// notify sends without blocking; a pending signal already covers this change.
func notify(changes chan<- struct{}) {
	select {
	case changes <- struct{}{}:
	default:
	}
}
