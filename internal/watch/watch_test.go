package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_CallsOnChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o644))

	w, err := New(path, WithDebounce(20*time.Millisecond), WithPollInterval(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			calls.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Replace the file the way FileBackend does
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("two, longer\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o644))

	w, err := New(path, WithDebounce(10*time.Millisecond), WithPollInterval(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var calls atomic.Int32
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
	}()

	err = w.Watch(ctx, func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_CallbackErrorStops(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New(path)
	require.NoError(t, err)

	boom := errors.New("render failed")
	err = w.Watch(context.Background(), func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestNew_AbsolutePath(t *testing.T) {
	t.Parallel()

	w, err := New("CHANGELOG.md")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Path()))
}
