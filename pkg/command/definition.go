// Package command compiles declarative command definitions into immutable
// schemas and parses command input against them.
package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Definition declares a command node. A node lists either Arguments (leaf)
// or Children (parent), never both.
type Definition struct {
	Name        string               `json:"name" yaml:"name"`
	Aliases     []string             `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Arguments   []ArgumentDefinition `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Children    []Definition         `json:"children,omitempty" yaml:"children,omitempty"`
}

// ArgumentDefinition declares one positional argument. Required defaults to
// true when omitted.
type ArgumentDefinition struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    *bool  `json:"required,omitempty" yaml:"required,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Rest makes the final argument swallow every remaining token.
	Rest bool `json:"rest,omitempty" yaml:"rest,omitempty"`
}

// IsRequired resolves the Required default.
func (a ArgumentDefinition) IsRequired() bool {
	return a.Required == nil || *a.Required
}

// Optional is a convenience for building definitions in Go code.
func Optional() *bool {
	f := false
	return &f
}

type definitionFile struct {
	Commands []Definition `json:"commands" yaml:"commands"`
}

// DecodeDefinitionsYAML reads a document of the form `commands: [...]`.
func DecodeDefinitionsYAML(data []byte) ([]Definition, error) {
	var f definitionFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode yaml definitions: %w", err)
	}
	return f.Commands, nil
}

// DecodeDefinitionsJSON reads a document of the form {"commands": [...]}.
func DecodeDefinitionsJSON(data []byte) ([]Definition, error) {
	var f definitionFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode json definitions: %w", err)
	}
	return f.Commands, nil
}

// LoadDefinitionsFile picks the decoder from the file extension.
func LoadDefinitionsFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeDefinitionsYAML(data)
	case ".json":
		return DecodeDefinitionsJSON(data)
	default:
		return nil, fmt.Errorf("unsupported definitions format %q", filepath.Ext(path))
	}
}
