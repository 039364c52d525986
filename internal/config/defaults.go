package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Janus Configuration
# See 'janus config -h' for commands, 'janus config keys' for all options

# Changelog settings
changelog_path: ""                    # Changelog file (empty = CHANGELOG.md at the git root)
lenient_parse: false                  # Skip malformed records with a warning instead of failing

# Locking
lock: true                            # Hold <changelog>.lock while reading and writing
lock_timeout: 5s                      # Max wait for the lock (e.g., '5s', '1m')

# History settings
state_dir: ~/.janus/state             # Directory for state files
max_history_entries: 500              # Max mutation history entries to retain (0 = unlimited)

# Output
log_level: warn                       # trace | debug | info | warn | error
plain: false                          # Disable colors, icons and relative dates
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_path": "",
		"lenient_parse":  false, // Data integrity over availability
		"lock":           true,
		"lock_timeout":   (5 * time.Second).String(),
		"state_dir":      "~/.janus/state",
		// max_history_entries: Maximum number of mutation history entries to retain.
		// Oldest entries are pruned when this limit is exceeded.
		"max_history_entries": 500,
		"log_level":           "warn",
		"plain":               false,
	}
}
