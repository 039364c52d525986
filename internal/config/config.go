// Package config provides hierarchical configuration management for janus using koanf.
// Configuration is loaded with priority: environment variables (JANUS_*) > project config
// (.janus/config.yml, or .janus/config.json) > user config (~/.config/janus/config.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "JANUS_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the janus CLI tool configuration
type Configuration struct {
	// ChangelogPath is the changelog file. Empty means CHANGELOG.md at the
	// git repository root, or in the working directory outside a repository.
	ChangelogPath string `koanf:"changelog_path"`

	// LenientParse skips malformed record blocks with a warning instead of
	// refusing to load the changelog.
	LenientParse bool `koanf:"lenient_parse"`

	// Lock holds an advisory lock file next to the changelog during reads and writes.
	Lock        bool          `koanf:"lock"`
	LockTimeout time.Duration `koanf:"lock_timeout" validate:"gt=0"`

	StateDir string `koanf:"state_dir"`

	// MaxHistoryEntries sets the maximum number of mutation history entries to retain.
	// Oldest entries are pruned when this limit is exceeded. 0 keeps every entry.
	// Can be set via JANUS_MAX_HISTORY_ENTRIES env var.
	MaxHistoryEntries int `koanf:"max_history_entries" validate:"gte=0"`

	LogLevel string `koanf:"log_level" validate:"oneof=trace debug info warn warning error"`
	Plain    bool   `koanf:"plain"` // Disable colors and icons in listings

	// sources records which layer supplied each key.
	sources map[string]ConfigSource
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .janus/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: UserConfigPath())
	UserConfigPath string
	// SkipEnv ignores JANUS_* environment variables
	SkipEnv bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	sources := make(map[string]ConfigSource)

	loadDefaults(k, sources)

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if err := loadLayer(k, userPath, SourceUser, sources); err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	if err := loadLayer(k, resolveProjectPath(opts.ProjectConfigPath), SourceProject, sources); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k, sources); err != nil {
			return nil, err
		}
	}

	return finalizeConfig(k, sources)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf, sources map[string]ConfigSource) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
		sources[key] = SourceDefault
	}
}

// resolveProjectPath returns the project config to load: the override if
// given, else .janus/config.yml, else .janus/config.json.
func resolveProjectPath(customPath string) string {
	if customPath != "" {
		return customPath
	}
	if yamlPath := ProjectConfigPath(); fileExists(yamlPath) {
		return yamlPath
	}
	return ProjectJSONConfigPath()
}

// loadLayer loads one config file into its own koanf instance and merges it
// over k. Missing files are skipped.
func loadLayer(k *koanf.Koanf, path string, source ConfigSource, sources map[string]ConfigSource) error {
	if !fileExists(path) {
		return nil
	}

	layer := koanf.New(".")
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := layer.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
		}
	} else {
		if err := ValidateYAMLSyntax(path); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
		}
		if err := layer.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
		}
	}

	for _, key := range layer.Keys() {
		sources[key] = source
	}
	return k.Merge(layer)
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf, sources map[string]ConfigSource) error {
	layer := koanf.New(".")
	if err := layer.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	for _, key := range layer.Keys() {
		sources[key] = SourceEnv
	}
	return k.Merge(layer)
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf, sources map[string]ConfigSource) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.sources = sources
	if err := ValidateConfigValues(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.ChangelogPath = expandHomePath(cfg.ChangelogPath)

	return &cfg, nil
}

// Source returns the layer that supplied key.
func (c *Configuration) Source(key string) ConfigSource {
	if s, ok := c.sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Setting is one effective configuration value with its origin.
type Setting struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Settings lists the effective value of every known key, sorted by key.
func (c *Configuration) Settings() []Setting {
	values := map[string]string{
		"changelog_path":      c.ChangelogPath,
		"lenient_parse":       fmt.Sprint(c.LenientParse),
		"lock":                fmt.Sprint(c.Lock),
		"lock_timeout":        c.LockTimeout.String(),
		"state_dir":           c.StateDir,
		"max_history_entries": fmt.Sprint(c.MaxHistoryEntries),
		"log_level":           c.LogLevel,
		"plain":               fmt.Sprint(c.Plain),
	}

	settings := make([]Setting, 0, len(values))
	for key, value := range values {
		settings = append(settings, Setting{Key: key, Value: value, Source: c.Source(key)})
	}
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].Key < settings[j].Key
	})
	return settings
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: JANUS_LOCK_TIMEOUT -> lock_timeout
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
