package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

// Formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath derives the format from the file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal encodes v. YAML output is produced from the JSON encoding so both
// formats share the same field names and value forms.
func Marshal(v any, f Format) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON, "":
		return append(data, '\n'), nil
	case FormatYAML:
		var n yaml.Node
		if err := yaml.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("failed to convert to yaml: %w", err)
		}
		blockStyle(&n)
		return yaml.Marshal(&n)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

// Unmarshal decodes data into v, rejecting unknown fields.
func Unmarshal(data []byte, f Format, v any) error {
	switch f {
	case FormatJSON, "":
	case FormatYAML:
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return err
		}
		var err error
		if data, err = json.Marshal(tree); err != nil {
			return fmt.Errorf("failed to convert from yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	d := json.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	return d.Decode(v)
}

// plainSafe matches strings that read back as strings when left unquoted.
var plainSafe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// blockStyle rewrites the flow style inherited from JSON into block style and
// drops quotes where they are not needed.
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style = 0
	case yaml.ScalarNode:
		if n.Tag == "!!str" && plainSafe.MatchString(n.Value) {
			switch strings.ToLower(n.Value) {
			case "true", "false", "null":
			default:
				n.Style = 0
			}
		}
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
