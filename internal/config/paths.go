package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/janus/config.yml
// - macOS: ~/Library/Application Support/janus/config.yml
// - Windows: %APPDATA%\janus\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "janus"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .janus/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yml")
}

// ProjectJSONConfigPath returns the JSON alternative to ProjectConfigPath.
// It is only read when the YAML file is absent.
func ProjectJSONConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.json")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".janus"
}
