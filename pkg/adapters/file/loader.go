// Package file loads a chain from a single YAML or JSON document.
//
// The document shape is:
//
//	entry: F1
//	initial: 2
//	functions:
//	  - id: F1
//	    equation: x^2
//	    next: F2
//	  - id: F2
//	    equation: 2*x+4
//
// JSON is accepted as well since it is a subset of YAML.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk chain format.
type Document struct {
	Entry     string         `json:"entry" yaml:"entry" mapstructure:"entry"`
	Initial   *float64       `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`
	Functions []NodeMetadata `json:"functions" yaml:"functions" mapstructure:"functions"`
}

// NodeMetadata is one function entry of a Document.
type NodeMetadata struct {
	ID       string `json:"id" yaml:"id" mapstructure:"id"`
	Equation string `json:"equation" yaml:"equation" mapstructure:"equation"`
	Next     string `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
}

// Loader implements ports.ChainLoader for a file on disk. The file is re-read on every Load.
type Loader struct {
	Path string
}

// New creates a loader for path.
func New(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and decodes the file.
func (l *Loader) Load(_ context.Context) (ports.Definition, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return ports.Definition{}, fmt.Errorf("failed to read chain file: %w", err)
	}

	doc, err := Decode(data)
	if err != nil {
		return ports.Definition{}, fmt.Errorf("%s: %w", l.Path, err)
	}

	base := filepath.Base(l.Path)
	def := ports.Definition{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Entry:   doc.Entry,
		Initial: doc.Initial,
		Nodes:   make([]domain.FunctionNode, 0, len(doc.Functions)),
	}
	for _, fn := range doc.Functions {
		def.Nodes = append(def.Nodes, domain.FunctionNode{ID: fn.ID, Equation: fn.Equation, Next: fn.Next})
	}
	return def, nil
}

// Decode parses a YAML or JSON chain document.
//
// The document is first decoded into a generic map so that loosely typed values
// (an equation written as a bare number, an initial value written as a string) are
// converted by mapstructure rather than rejected by the YAML decoder. Unknown keys are errors.
func Decode(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse chain document: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty chain document")
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid chain document: %w", err)
	}
	return &doc, nil
}

// Encode renders a definition as a YAML document that Decode accepts.
func Encode(def ports.Definition) ([]byte, error) {
	doc := Document{
		Entry:     def.Entry,
		Initial:   def.Initial,
		Functions: make([]NodeMetadata, 0, len(def.Nodes)),
	}
	for _, n := range def.Nodes {
		doc.Functions = append(doc.Functions, NodeMetadata{ID: n.ID, Equation: n.Equation, Next: n.Next})
	}
	return yaml.Marshal(doc)
}
