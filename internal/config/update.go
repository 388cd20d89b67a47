package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// Keys lists every settable key in dotted form.
var Keys = []string{
	"interval",
	"frame_interval",
	"sample_timeout",
	"initial_tab",
	"backend",
	"history_size",
	"top_processes",
	"no_color",
	"log_file",
	"thresholds.cpu.warning",
	"thresholds.cpu.critical",
	"thresholds.memory.warning",
	"thresholds.memory.critical",
	"thresholds.disk.warning",
	"thresholds.disk.critical",
}

const fileHeader = "# sysmon configuration. Run 'sysmon config show' to see effective values.\n"

// SetValue sets one key in the config file at path, creating the file if
// needed. Other keys, comments and ordering are preserved. The result is
// validated before anything is written.
func SetValue(path, key, value string) error {
	if !isKey(key) {
		hint := "Run 'sysmon config show' to list the keys."
		if near := util.SuggestSimilar(key, Keys, 1); len(near) > 0 {
			hint = fmt.Sprintf("Did you mean '%s'?", near[0])
		}
		return errors.New(errors.ErrConfig, fmt.Sprintf("'%s' isn't a config key", key), hint)
	}

	root, err := readDocument(path)
	if err != nil {
		return err
	}

	docNode := root.Content[0]
	node := docNode
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := findMapValue(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalarNode(part), child)
		}
		if child.Kind != yaml.MappingNode {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' in %s is not a section", part, path),
				"Fix the file by hand, or remove the key and try again.")
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Style = 0
		existing.Content = nil
		existing.Value = value
	} else {
		node.Content = append(node.Content, scalarNode(leaf), scalarNode(value))
	}

	data, err := encode(&root)
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid value for %s", value, key),
			"Durations look like '1s', numbers like '80', booleans like 'true'.")
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	return writeFile(path, data)
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()
	return writeFile(path, buf.Bytes())
}

// readDocument parses path into a document node, or returns a new
// document when the file does not exist yet.
func readDocument(path string) (yaml.Node, error) {
	var root yaml.Node

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return root, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file", "Check file permissions on "+path)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return root, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to parse config file", "Check the YAML syntax in "+path)
		}
	}

	if root.Kind == 0 {
		root = yaml.Node{
			Kind:        yaml.DocumentNode,
			HeadComment: strings.TrimSuffix(fileHeader, "\n"),
			Content: []*yaml.Node{{
				Kind: yaml.MappingNode,
				Tag:  "!!map",
				Content: []*yaml.Node{
					scalarNode("version"), scalarNode(fmt.Sprint(CurrentConfigVersion)),
				},
			}},
		}
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return root, errors.New(errors.ErrConfig,
			"Expected a mapping at the top of "+path,
			"The config file should be a list of 'key: value' lines.")
	}
	return root, nil
}

func encode(root *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory", "Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file", "Check permissions on "+path)
	}
	return nil
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func isKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
