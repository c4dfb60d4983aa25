package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Write encodes doc as indented JSON. Empty node and edge lists are written
// as [] so the output always passes schema validation.
func Write(doc *Document, w io.Writer) error {
	out := *doc
	if out.Nodes == nil {
		out.Nodes = []workflow.Node{}
	}
	if out.Edges == nil {
		out.Edges = []workflow.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes doc to a JSON file at path.
func Export(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(doc, f)
}
