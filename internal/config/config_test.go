package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func isolatedOptions(t *testing.T) LoadOptions {
	t.Helper()
	dir := t.TempDir()
	return LoadOptions{
		UserConfigPath:    filepath.Join(dir, "user", "config.yml"),
		ProjectConfigPath: filepath.Join(dir, "project", "config.yml"),
		SkipEnv:           true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWithOptions(isolatedOptions(t))
	require.NoError(t, err)

	assert.Empty(t, cfg.ChangelogPath)
	assert.False(t, cfg.LenientParse)
	assert.True(t, cfg.Lock)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 500, cfg.MaxHistoryEntries)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Plain)
	assert.Equal(t, SourceDefault, cfg.Source("lock"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".janus", "state"), cfg.StateDir)
}

func TestLoad_Layering(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	writeConfig(t, filepath.Dir(opts.UserConfigPath), "config.yml",
		"log_level: info\nmax_history_entries: 10\n")
	writeConfig(t, filepath.Dir(opts.ProjectConfigPath), "config.yml",
		"log_level: debug\nchangelog_path: docs/CHANGES.md\n")

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, SourceProject, cfg.Source("log_level"))
	assert.Equal(t, 10, cfg.MaxHistoryEntries)
	assert.Equal(t, SourceUser, cfg.Source("max_history_entries"))
	assert.Equal(t, "docs/CHANGES.md", cfg.ChangelogPath)
	assert.Equal(t, SourceDefault, cfg.Source("plain"))
}

func TestLoad_ProjectJSON(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	opts.ProjectConfigPath = writeConfig(t, t.TempDir(), "config.json",
		`{"lenient_parse": true, "lock_timeout": "250ms"}`)

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.True(t, cfg.LenientParse)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	opts := isolatedOptions(t)
	opts.SkipEnv = false
	writeConfig(t, filepath.Dir(opts.ProjectConfigPath), "config.yml", "log_level: debug\n")

	t.Setenv("JANUS_LOG_LEVEL", "error")
	t.Setenv("JANUS_LOCK_TIMEOUT", "2s")
	t.Setenv("JANUS_PLAIN", "true")
	t.Setenv("JANUS_MAX_HISTORY_ENTRIES", "7")

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, SourceEnv, cfg.Source("log_level"))
	assert.Equal(t, 2*time.Second, cfg.LockTimeout)
	assert.True(t, cfg.Plain)
	assert.Equal(t, 7, cfg.MaxHistoryEntries)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantMsg   string
	}{
		"negative history": {
			content:   "max_history_entries: -1\n",
			wantField: "max_history_entries",
		},
		"unknown log level": {
			content:   "log_level: loud\n",
			wantField: "log_level",
		},
		"zero lock timeout": {
			content:   "lock_timeout: 0s\n",
			wantField: "lock_timeout",
		},
		"unknown log level names allowed values": {
			content:   "log_level: loud\n",
			wantField: "log_level",
			wantMsg:   "must be one of: trace, debug, info, warn, warning, error (minimum level of log messages",
		},
		"yaml syntax error": {
			content: "log_level: [unclosed\n",
			wantMsg: "validating YAML syntax",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := isolatedOptions(t)
			writeConfig(t, filepath.Dir(opts.ProjectConfigPath), "config.yml", tt.content)

			_, err := LoadWithOptions(opts)
			require.Error(t, err)

			if tt.wantField != "" {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantField, vErr.Key)
				assert.Contains(t, err.Error(), "project config: "+tt.wantField+" = ")
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDefaultConfigTemplate_LoadsAsDefaults(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	writeConfig(t, filepath.Dir(opts.ProjectConfigPath), "config.yml", GetDefaultConfigTemplate())

	fromTemplate, err := LoadWithOptions(opts)
	require.NoError(t, err)

	defaults, err := LoadWithOptions(isolatedOptions(t))
	require.NoError(t, err)

	for i, s := range fromTemplate.Settings() {
		assert.Equal(t, defaults.Settings()[i].Value, s.Value, "key %s", s.Key)
	}
}

func TestSettings(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWithOptions(isolatedOptions(t))
	require.NoError(t, err)

	settings := cfg.Settings()
	require.Len(t, settings, len(KnownKeys))
	for i, key := range SortedKeys() {
		assert.Equal(t, key, settings[i].Key)
	}
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		value   string
		want    interface{}
		wantErr string
	}{
		"bool":         {key: "lock", value: "false", want: false},
		"int":          {key: "max_history_entries", value: "42", want: 42},
		"duration":     {key: "lock_timeout", value: "1m", want: "1m0s"},
		"enum":         {key: "log_level", value: "info", want: "info"},
		"string":       {key: "changelog_path", value: "CHANGES.md", want: "CHANGES.md"},
		"bad bool":     {key: "plain", value: "yes", wantErr: "invalid boolean"},
		"bad duration": {key: "lock_timeout", value: "soon", wantErr: "invalid duration"},
		"unknown key":  {key: "colour", value: "red", wantErr: "unknown configuration key"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
		})
	}
}

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(dir, "missing.yml")))
	assert.NoError(t, ValidateYAMLSyntax(writeConfig(t, dir, "empty.yml", "  \n")))
	assert.NoError(t, ValidateYAMLSyntax(writeConfig(t, dir, "ok.yml", "plain: true\n")))

	err := ValidateYAMLSyntax(writeConfig(t, dir, "bad.yml", "plain: true\n  lock: [\n"))
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Greater(t, vErr.Line, 0)
}

func TestValidateConfigValues_ReportsEveryKey(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	writeConfig(t, filepath.Dir(opts.ProjectConfigPath), "config.yml", "max_history_entries: -1\nlock_timeout: 0s\n")

	_, err := LoadWithOptions(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_history_entries = -1: must be at least 0")
	assert.Contains(t, err.Error(), "lock_timeout = 0s: must be greater than 0")
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "lock_timeout", envTransform("JANUS_LOCK_TIMEOUT"))
	assert.Equal(t, "plain", envTransform("JANUS_PLAIN"))
}
