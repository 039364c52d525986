// Package git locates the enclosing git repository so janus can default to
// the CHANGELOG.md at the repository root. It uses the go-git library and
// does not need a git binary.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ChangelogFileName is the changelog looked for at the repository root.
const ChangelogFileName = "CHANGELOG.md"

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// RepoRoot returns the absolute path to the root of the repository
// containing dir (the working directory when dir is empty).
func RepoRoot(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] RepoRoot: %s", root)
	return root, nil
}

// IsRepository checks if dir is within a git repository.
func IsRepository(dir string) bool {
	_, err := openRepo(dir)
	result := err == nil
	logDebug("[git] IsRepository: %v", result)
	return result
}

// DefaultChangelogPath returns CHANGELOG.md at the root of the repository
// containing dir, or in dir itself when it is not inside a repository.
func DefaultChangelogPath(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
	}

	root, err := RepoRoot(dir)
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			return "", err
		}
		logDebug("[git] %s is not in a repository, using it directly", dir)
		root = dir
	}
	return filepath.Join(root, ChangelogFileName), nil
}
