// Package health provides setup checks for janus. It validates that the
// changelog, its lock, the state directory and the git repository are usable,
// returning structured reports used by the 'janus doctor' command.
package health

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/janus/internal/changelog"
	"github.com/ariel-frischer/janus/internal/git"
	"github.com/ariel-frischer/janus/internal/progress"
	"github.com/ariel-frischer/janus/internal/store"
	"github.com/juju/fslock"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	ChangelogPath string
	StateDir      string
	// Lock enables the lock check.
	Lock bool
	// Dir is where git detection starts (empty = working directory).
	Dir string
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{Passed: true}

	add := func(r CheckResult) {
		report.Checks = append(report.Checks, r)
		if !r.Passed {
			report.Passed = false
		}
	}

	add(CheckGitRepository(opts.Dir))
	add(CheckChangelog(opts.ChangelogPath))
	if opts.Lock {
		add(CheckLock(opts.ChangelogPath))
	}
	add(CheckStateDir(opts.StateDir))

	return report
}

// CheckGitRepository reports where the default changelog location comes from.
// Not being in a repository is not a failure.
func CheckGitRepository(dir string) CheckResult {
	root, err := git.RepoRoot(dir)
	if err != nil {
		return CheckResult{
			Name:    "Git repository",
			Passed:  true,
			Message: "not in a git repository; default changelog is in the working directory",
		}
	}
	return CheckResult{
		Name:    "Git repository",
		Passed:  true,
		Message: fmt.Sprintf("found at %s", root),
	}
}

// CheckChangelog verifies the changelog exists, parses and is canonical.
// A non-canonical file passes with a hint, since any write fixes it.
func CheckChangelog(path string) CheckResult {
	result := CheckResult{Name: "Changelog"}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Message = fmt.Sprintf("not found at %s - run 'janus init' to create it", path)
		} else {
			result.Message = fmt.Sprintf("cannot read %s: %v", path, err)
		}
		return result
	}

	text := string(data)
	records, err := changelog.Parse(text)
	if err != nil {
		result.Message = fmt.Sprintf("%s is malformed: %v", path, err)
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%s (%d records, %d entries)", path, len(records), changelog.EntryCount(records))
	if changelog.Serialize(records) != text {
		result.Message += "; not canonical - run 'janus fmt'"
	}
	return result
}

// CheckLock verifies no other process holds the changelog lock.
func CheckLock(changelogPath string) CheckResult {
	backend := store.NewFileBackend(changelogPath)
	lockPath := backend.LockPath()
	result := CheckResult{Name: "Changelog lock"}

	if _, err := os.Stat(filepath.Dir(lockPath)); err != nil {
		result.Passed = true
		result.Message = "no lock held"
		return result
	}

	lock := fslock.New(lockPath)
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, fslock.ErrLocked) {
			result.Message = fmt.Sprintf("%s is held by another process", lockPath)
		} else {
			result.Message = fmt.Sprintf("cannot open %s: %v", lockPath, err)
		}
		return result
	}
	_ = lock.Unlock()

	result.Passed = true
	result.Message = "no lock held"
	return result
}

// CheckStateDir verifies the history journal directory is writable.
func CheckStateDir(dir string) CheckResult {
	result := CheckResult{Name: "State directory"}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Message = fmt.Sprintf("cannot create %s: %v", dir, err)
		return result
	}

	f, err := os.CreateTemp(dir, ".janus-doctor-*")
	if err != nil {
		result.Message = fmt.Sprintf("%s is not writable: %v", dir, err)
		return result
	}
	f.Close()
	os.Remove(f.Name())

	result.Passed = true
	result.Message = dir
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport, symbols progress.ProgressSymbols) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := symbols.Checkmark
		if !check.Passed {
			mark = symbols.Failure
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
