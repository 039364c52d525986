// Package cli tests the doctor and version commands for janus.
// Related: internal/cli/doctor.go, internal/cli/version.go
// Tags: cli, doctor, health, version

package cli

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctor(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t).withChangelog(threeRecordDoc)
	out, _, err := env.run("doctor")
	require.NoError(t, err)

	assert.Contains(t, out, "[OK] Changelog: "+env.changelog+" (3 records, 3 entries)")
	assert.Contains(t, out, "[OK] Changelog lock: no lock held")
	assert.Contains(t, out, "[OK] State directory: "+env.stateDir)
}

func TestDoctor_Failures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	out, _, err := env.run("doctor")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, out, "[FAIL] Changelog: not found")

	require.NoError(t, os.WriteFile(env.changelog, []byte("[id]:x\n"), 0o644))
	out, _, err = env.run("doctor")
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL] Changelog: "+env.changelog+" is malformed")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("log_level: loud\n"), 0o644))

	out, _, err := env.run("version")
	require.NoError(t, err, "version must not need a valid config")
	assert.Contains(t, out, "janus dev\n")
	assert.Contains(t, out, "go: "+runtime.Version())
	assert.Contains(t, out, "platform: "+runtime.GOOS+"/"+runtime.GOARCH)
}
