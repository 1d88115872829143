package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFilename is the name of the label configuration file looked up next to the executable
const DefaultFilename = "config.json"

// ErrNotFound is returned when no configuration file exists at the requested path
var ErrNotFound = errors.New("config file not found")

var colorPattern = regexp.MustCompile(`^#?[a-fA-F0-9]{3,6}$`)

// Config represents the label configuration artifact
type Config struct {
	Labels Labels `json:"labels" yaml:"labels"`
}

// Label is a single configured label
type Label struct {
	Name  string
	Color string
}

// Labels keeps configured labels in the order they appear in the file
type Labels []Label

// FileError reports a configuration file that exists but could not be used
type FileError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s config file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Err
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads, validates and normalizes configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &FileError{Path: path, Op: "read", Err: err}
	}

	config, err := Parse(data, IsYAML(path))
	if err != nil {
		return nil, &FileError{Path: path, Op: "parse", Err: err}
	}

	return config, nil
}

// Parse decodes a configuration document, then validates and normalizes it
func Parse(data []byte, isYAML bool) (*Config, error) {
	var config Config
	if isYAML {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Normalize()

	return &config, nil
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	if IsYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path, which sits
// next to the running executable
func GetConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Join(filepath.Dir(exe), DefaultFilename), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Labels))
	for i, label := range c.Labels {
		if strings.TrimSpace(label.Name) == "" {
			return fmt.Errorf("label %d: name is required", i+1)
		}
		if seen[label.Name] {
			return fmt.Errorf("label %q: duplicate name", label.Name)
		}
		seen[label.Name] = true

		if !IsValidColor(label.Color) {
			return fmt.Errorf("label %q: invalid color %q (expected 3 to 6 hex digits, optionally prefixed with #)", label.Name, label.Color)
		}
	}

	return nil
}

// Normalize rewrites every color to carry a leading '#'
func (c *Config) Normalize() {
	for i := range c.Labels {
		c.Labels[i].Color = NormalizeColor(c.Labels[i].Color)
	}
}

// Names returns the configured label names in file order
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Labels))
	for _, label := range c.Labels {
		names = append(names, label.Name)
	}
	return names
}

// IsValidColor reports whether s is 3 to 6 hex digits with an optional leading '#'
func IsValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// NormalizeColor returns the color with exactly one leading '#'
func NormalizeColor(color string) string {
	return "#" + BareColor(color)
}

// BareColor returns the color without its leading '#', as the labels API expects it
func BareColor(color string) string {
	return strings.TrimPrefix(color, "#")
}

// IsYAML reports whether path names a YAML document
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// UnmarshalJSON decodes a JSON object of name/color pairs keeping key order
func (l *Labels) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("labels must be an object of name to color")
	}

	var labels Labels
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var color string
		if err := dec.Decode(&color); err != nil {
			return fmt.Errorf("label %q: color must be a string: %w", name, err)
		}
		labels = append(labels, Label{Name: name, Color: color})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = labels
	return nil
}

// MarshalJSON encodes labels as a JSON object in slice order
func (l Labels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(label.Name)
		if err != nil {
			return nil, err
		}
		color, err := json.Marshal(label.Color)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(color)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping of name/color pairs keeping key order
func (l *Labels) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: labels must be a mapping of name to color", node.Line)
	}

	labels := make(Labels, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var label Label
		if err := node.Content[i].Decode(&label.Name); err != nil {
			return err
		}
		value := node.Content[i+1]
		if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null" {
			return fmt.Errorf("line %d: label %q has no color; quote colors that start with # (e.g. %s: \"#fff\"), an unquoted # starts a YAML comment",
				value.Line, label.Name, label.Name)
		}
		if err := value.Decode(&label.Color); err != nil {
			return fmt.Errorf("label %q: %w", label.Name, err)
		}
		labels = append(labels, label)
	}

	*l = labels
	return nil
}

// MarshalYAML encodes labels as a YAML mapping in slice order
func (l Labels) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, label := range l {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: label.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: label.Color},
		)
	}
	return node, nil
}
