package changelog

import (
	"errors"
	"fmt"
)

// ValidationError represents a record validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// MalformedDateError is returned when a date string is not valid M/D/YYYY.
type MalformedDateError struct {
	Value  string
	Reason string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date %q: %s", e.Value, e.Reason)
}

// MalformedRecordError reports a record block that does not follow the
// document format. Block is the zero-based index of the block in the
// document and Line the one-based line number of the offending line.
type MalformedRecordError struct {
	Block  int
	Line   int
	ID     string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("record %d", e.Block)
	if e.ID != "" {
		msg += fmt.Sprintf(" (id %s)", e.ID)
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsMalformed returns true if err is a record or date format error.
func IsMalformed(err error) bool {
	var re *MalformedRecordError
	var de *MalformedDateError
	return errors.As(err, &re) || errors.As(err, &de)
}
