package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "lock_timeout")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog_path": {
		Path:        "changelog_path",
		Type:        TypeString,
		Description: "Changelog file (empty = CHANGELOG.md at the git root)",
		Default:     "",
	},
	"lenient_parse": {
		Path:        "lenient_parse",
		Type:        TypeBool,
		Description: "Skip malformed records with a warning instead of failing",
		Default:     false,
	},
	"lock": {
		Path:        "lock",
		Type:        TypeBool,
		Description: "Hold an advisory lock file while reading and writing",
		Default:     true,
	},
	"lock_timeout": {
		Path:        "lock_timeout",
		Type:        TypeDuration,
		Description: "Maximum wait for the changelog lock",
		Default:     "5s",
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for state files",
		Default:     "~/.janus/state",
	},
	"max_history_entries": {
		Path:        "max_history_entries",
		Type:        TypeInt,
		Description: "Maximum number of mutation history entries to retain",
		Default:     500,
	},
	"log_level": {
		Path:          "log_level",
		Type:          TypeEnum,
		AllowedValues: []string{"trace", "debug", "info", "warn", "error"},
		Description:   "Minimum level of log messages written to stderr",
		Default:       "warn",
	},
	"plain": {
		Path:        "plain",
		Type:        TypeBool,
		Description: "Disable colors, icons and relative dates in listings",
		Default:     false,
	},
}

// SortedKeys returns the known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeDuration:
		return parseDurationValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5m, 1h30m, 10s)", value)
	}
	return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
