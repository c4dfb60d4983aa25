package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a workflow plus optional diagram options.
type Document struct {
	workflow.Data `yaml:",inline"`
	Options       *workflow.Options `json:"options,omitempty" yaml:"options,omitempty"`
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Read decodes, schema-validates and checks a document from r.
func Read(r io.Reader, format Format) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var generic any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := ValidateSchema(generic); err != nil {
		return nil, err
	}

	// Options start from defaults so a partial options block only overrides
	// the fields it names.
	defaults := workflow.DefaultOptions()
	doc := Document{Options: &defaults}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if m, ok := generic.(map[string]any); !ok || m["options"] == nil {
		doc.Options = nil
	}

	if err := doc.Data.Validate(); err != nil {
		return nil, err
	}
	doc.Data.Normalize()
	return &doc, nil
}

// ReadJSON decodes a JSON document from r.
func ReadJSON(r io.Reader) (*Document, error) { return Read(r, FormatJSON) }

// ReadYAML decodes a YAML document from r.
func ReadYAML(r io.Reader) (*Document, error) { return Read(r, FormatYAML) }

// Import reads the document at path, choosing the decoder by extension.
// Errors are wrapped with the path.
func Import(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
