package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

func TestRepoRoot(t *testing.T) {
	t.Parallel()

	root := initRepo(t)
	nested := filepath.Join(root, "docs", "notes")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	tests := map[string]struct {
		dir string
	}{
		"at root":     {dir: root},
		"from nested": {dir: nested},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := RepoRoot(tt.dir)
			require.NoError(t, err)
			assert.Equal(t, root, got)
		})
	}
}

func TestIsRepository(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRepository(initRepo(t)))
	assert.False(t, IsRepository(t.TempDir()))
}

func TestDefaultChangelogPath(t *testing.T) {
	t.Parallel()

	root := initRepo(t)
	nested := filepath.Join(root, "cmd")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := DefaultChangelogPath(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ChangelogFileName), got)

	plain := t.TempDir()
	got, err = DefaultChangelogPath(plain)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(plain, ChangelogFileName), got)
}

func TestSetDebugLogger(t *testing.T) {
	var messages []string
	SetDebugLogger(func(format string, args ...any) {
		messages = append(messages, format)
	})
	defer SetDebugLogger(nil)

	IsRepository(t.TempDir())
	assert.NotEmpty(t, messages)
}
