// Package cli tests exit code mapping for janus.
// Related: internal/cli/exit_codes.go
// Tags: cli, exit-codes, errors

package cli

import (
	"errors"
	"fmt"
	"testing"

	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		constant int
		want     int
	}{
		"ExitSuccess":          {constant: ExitSuccess, want: 0},
		"ExitFailure":          {constant: ExitFailure, want: 1},
		"ExitInvalidArguments": {constant: ExitInvalidArguments, want: 2},
		"ExitPrerequisite":     {constant: ExitPrerequisite, want: 3},
		"ExitInvalidConfig":    {constant: ExitInvalidConfig, want: 4},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.constant)
		})
	}
}

func TestNewExitError(t *testing.T) {
	t.Parallel()

	err := NewExitError(ExitInvalidConfig)
	assert.Equal(t, "exit code 4", err.Error())
	assert.Equal(t, ExitInvalidConfig, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":                {err: nil, want: ExitSuccess},
		"generic error":      {err: errors.New("boom"), want: ExitFailure},
		"wrapped exit error": {err: fmt.Errorf("check: %w", NewExitError(7)), want: 7},
		"argument error":     {err: clierrors.NewArgumentError("bad"), want: ExitInvalidArguments},
		"prerequisite error": {err: clierrors.NewPrerequisiteError("missing"), want: ExitPrerequisite},
		"config error":       {err: clierrors.InvalidConfig(errors.New("bad yaml")), want: ExitInvalidConfig},
		"runtime error":      {err: clierrors.NewRuntimeError("failed"), want: ExitFailure},
		"wrapped cli error": {
			err:  fmt.Errorf("outer: %w", clierrors.NewArgumentError("bad")),
			want: ExitInvalidArguments,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}
