package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKeyPath is returned when a config key path is empty.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted key path into its segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	return strings.Split(path, "."), nil
}

// SetNestedValue sets value at keyPath inside a YAML document node, creating
// intermediate mappings as needed. Existing comments on the replaced value
// are kept.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}

	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind != yaml.DocumentNode {
		return fmt.Errorf("expected YAML document node")
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	mapping := root.Content[0]
	for i, key := range keyPath {
		if mapping.Kind != yaml.MappingNode {
			return fmt.Errorf("key %q is not a mapping", strings.Join(keyPath[:i], "."))
		}

		child := mappingValue(mapping, key)
		if i < len(keyPath)-1 {
			if child == nil {
				child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
				mapping.Content = append(mapping.Content, scalarKey(key), child)
			}
			mapping = child
			continue
		}

		var encoded yaml.Node
		if err := encoded.Encode(value); err != nil {
			return fmt.Errorf("encoding value for %s: %w", strings.Join(keyPath, "."), err)
		}
		if child == nil {
			mapping.Content = append(mapping.Content, scalarKey(key), &encoded)
			return nil
		}
		encoded.HeadComment = child.HeadComment
		encoded.LineComment = child.LineComment
		encoded.FootComment = child.FootComment
		*child = encoded
	}
	return nil
}

// GetNestedValue returns the node at keyPath, or nil if any segment is missing.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if len(keyPath) == 0 || root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}

	node := root.Content[0]
	for _, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		node = mappingValue(node, key)
		if node == nil {
			return nil
		}
	}
	return node
}

// SetConfigValue validates value against the key's schema and writes it to
// the YAML config file at path, creating the file if needed. Comments in an
// existing file are preserved.
func SetConfigValue(path, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}

	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	root := &yaml.Node{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		node, err := parseYAML(data, path)
		if err != nil {
			return err
		}
		if node != nil {
			root = node
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := SetNestedValue(root, keyPath, parsed.Parsed); err != nil {
		return err
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func scalarKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
