package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/ariel-frischer/janus/internal/changelog"
	"github.com/ariel-frischer/janus/internal/store"
	"github.com/juju/fslock"
)

// Common error messages for the janus CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string, err error) *CLIError {
	e := NewPrerequisiteError(
		fmt.Sprintf("changelog not found at %s", path),
		"Run 'janus init' to create an empty changelog",
		"Or point at an existing file with --file or changelog_path in .janus/config.yml",
	)
	e.Err = err
	return e
}

// RecordNotFound creates an error when no record has the given id.
func RecordNotFound(id string, err error) *CLIError {
	e := NewArgumentError(
		fmt.Sprintf("no record with id %q", id),
		"List record ids with: janus list",
	)
	e.Err = err
	return e
}

// MalformedChangelog creates an error when the changelog cannot be parsed.
func MalformedChangelog(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("changelog %s is malformed", path),
		"Fix the reported line by hand; records must follow:",
		"  [id]:<id> / # <title> - M/D/YYYY / section headers / - bullets",
		"Or load it anyway, skipping bad records: janus --lenient <command>",
	)
}

// SkippedRecords creates an error when a mutation is refused because a
// lenient load skipped malformed records that the save would erase.
func SkippedRecords(path string, err *store.SkippedRecordsError) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("changelog %s has %d malformed record(s); not saving %s over them", path, len(err.Skipped), err.Op),
		"--lenient only reads around malformed records, it never rewrites the file",
		"Fix the records listed above by hand, then confirm with: janus check",
	)
}

// InvalidRecord creates an error when a record fails validation.
func InvalidRecord(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"invalid record",
		"Titles and entries must be single, non-blank lines",
		"Dates use the M/D/YYYY form, e.g. 3/1/2024",
	)
}

// NothingToEdit creates an error when edit is called without any field flags.
func NothingToEdit(id string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("nothing to change for record %s", id),
		"janus edit <id> [--title T] [--date M/D/YYYY] [--feature X]... [--fix X]... [--maintenance X]... [--clear CATEGORY]",
		"Pass at least one field flag",
	)
}

// LockTimeout creates an error when the changelog lock could not be acquired.
func LockTimeout(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("changelog %s is locked by another process", path),
		"Wait for the other janus command to finish and retry",
		"Raise lock_timeout in the config if writes are slow",
		"If no other process is running, remove "+path+".lock",
	)
}

// PersistenceFailed creates an error when a mutation could not be saved.
func PersistenceFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("could not save %s", path),
		"Check that the file and its directory are writable",
		"The changelog on disk was not modified",
	)
}

// NotCanonical creates an error when the changelog is not in canonical form.
func NotCanonical(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("changelog %s is not in canonical form", path),
		"Rewrite it with: janus fmt",
	)
}

// InvalidConfig creates an error for configuration that failed to load.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check the file reported above",
		"Show effective settings with: janus config show",
	)
}

// Classify maps a domain error from the changelog or store packages to a
// CLIError with remediation. path is the changelog file involved. Errors that
// are already CLIErrors are returned as-is; anything unrecognised becomes a
// plain runtime error.
func Classify(err error, path string) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var notFound *changelog.RecordNotFoundError
	var skipped *store.SkippedRecordsError
	switch {
	case stderrors.As(err, &skipped):
		return SkippedRecords(path, skipped)
	case stderrors.Is(err, fslock.ErrTimeout):
		return LockTimeout(path, err)
	case store.IsNotExist(err):
		return ChangelogNotFound(path, err)
	case stderrors.As(err, &notFound):
		return RecordNotFound(notFound.ID, err)
	case changelog.IsMalformed(err):
		return MalformedChangelog(path, err)
	case changelog.IsValidationError(err):
		return InvalidRecord(err)
	}

	var persistErr *store.PersistenceError
	if stderrors.As(err, &persistErr) {
		return PersistenceFailed(path, err)
	}
	return Wrap(err, Runtime)
}
