package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowtower/pkg/workflow"
)

const sampleJSON = `{
  "nodes": [
    {"id": "start", "nodeType": "start", "label": "Start"},
    {"id": "review", "nodeType": "decision", "label": "Review", "status": "active"},
    {"id": "done", "nodeType": "end", "label": "Done", "position": {"x": 0, "y": 0}}
  ],
  "edges": [
    {"id": "e1", "from": "start", "to": "review"},
    {"from": "review", "to": "done", "label": "approved", "animated": true}
  ],
  "options": {"direction": "vertical", "nodeWidth": 120}
}`

const sampleYAML = `
nodes:
  - id: start
    nodeType: start
    label: Start
  - id: work
    label: Work
    description: does the thing
    position: {x: 10, y: 20.5}
edges:
  - from: start
    to: work
    condition: ready
`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
	if doc.Nodes[0].Position != nil {
		t.Error("node without position should stay unset")
	}
	if p := doc.Nodes[2].Position; p == nil || p.X != 0 || p.Y != 0 {
		t.Errorf("explicit origin lost: %v", p)
	}
	if doc.Nodes[0].Status != workflow.StatusPending {
		t.Errorf("status default = %q", doc.Nodes[0].Status)
	}
	if doc.Edges[1].ID != "review->done" || !doc.Edges[1].Animated {
		t.Errorf("edge = %+v", doc.Edges[1])
	}
	if doc.Options == nil || doc.Options.Direction != workflow.Vertical || doc.Options.NodeWidth != 120 {
		t.Errorf("options = %+v", doc.Options)
	}
}

func TestReadYAML(t *testing.T) {
	doc, err := ReadYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	if doc.Nodes[1].Type != workflow.NodeTask {
		t.Errorf("default node type = %q", doc.Nodes[1].Type)
	}
	if p := doc.Nodes[1].Position; p == nil || p.X != 10 || p.Y != 20.5 {
		t.Errorf("position = %v", p)
	}
	if doc.Edges[0].Condition != "ready" {
		t.Errorf("edge = %+v", doc.Edges[0])
	}
	if doc.Options != nil {
		t.Error("options should be nil when absent")
	}
}

func TestReadRejects(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		want   error
	}{
		{"not json", FormatJSON, `{nodes`, ErrMalformed},
		{"not yaml", FormatYAML, "nodes: [\n  - id: a\n bad", ErrMalformed},
		{"missing nodes", FormatJSON, `{"edges": []}`, ErrSchema},
		{"unknown type", FormatJSON, `{"nodes": [{"id": "a", "nodeType": "blob"}]}`, ErrSchema},
		{"unknown status", FormatYAML, "nodes:\n  - id: a\n    status: done\n", ErrSchema},
		{"extra field", FormatJSON, `{"nodes": [{"id": "a", "colour": "red"}]}`, ErrSchema},
		{"bad direction", FormatJSON, `{"nodes": [], "options": {"direction": "diagonal"}}`, ErrSchema},
		{"empty id", FormatJSON, `{"nodes": [{"id": ""}]}`, ErrSchema},
		{"duplicate id", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "a"}]}`, workflow.ErrDuplicateNode},
		{"bad format", Format("toml"), `nodes = []`, ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, tt.want) {
				t.Errorf("Read() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDanglingEdgesAccepted(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "ghost"}]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(doc.Edges) != 1 || len(doc.ValidEdges()) != 0 {
		t.Errorf("edges = %d, valid = %d", len(doc.Edges), len(doc.ValidEdges()))
	}
}

func TestWriteRoundTrip(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	again, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if again.Nodes[2].Position == nil || again.Nodes[0].Position != nil {
		t.Error("positions not preserved across round trip")
	}
	if again.Nodes[1].Status != workflow.StatusActive {
		t.Errorf("status = %q", again.Nodes[1].Status)
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&Document{}, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := ReadJSON(&buf); err != nil {
		t.Errorf("empty document should re-read: %v", err)
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "flow.yml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Import(yamlPath)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	jsonPath := filepath.Join(dir, "flow.json")
	if err := Export(doc, jsonPath); err != nil {
		t.Fatalf("Export: %v", err)
	}
	back, err := Import(jsonPath)
	if err != nil {
		t.Fatalf("Import json: %v", err)
	}
	if len(back.Nodes) != 2 || back.Nodes[1].Description != "does the thing" {
		t.Errorf("round trip = %+v", back.Nodes)
	}

	if _, err := Import(filepath.Join(dir, "flow.txt")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Import(.txt) = %v", err)
	}
	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Import(missing) = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{"a.json": FormatJSON, "b.YAML": FormatYAML, "c.yml": FormatYAML}
	for path, want := range tests {
		if got, err := FormatFromPath(path); err != nil || got != want {
			t.Errorf("FormatFromPath(%s) = %v, %v", path, got, err)
		}
	}
}

func TestPartialOptionsKeepDefaults(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"nodes": [], "options": {"direction": "vertical"}}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	want := workflow.DefaultOptions()
	want.Direction = workflow.Vertical
	if *doc.Options != want {
		t.Errorf("options = %+v, want %+v", *doc.Options, want)
	}
}

func TestZeroSpacingKept(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"nodes": [], "options": {"horizontalSpacing": 0}}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	opts := doc.Options.WithDefaults()
	if opts.HorizontalSpacing != 0 {
		t.Errorf("HorizontalSpacing = %v, want 0", opts.HorizontalSpacing)
	}
	if opts.VerticalSpacing != workflow.DefaultVerticalSpacing {
		t.Errorf("VerticalSpacing = %v, want default", opts.VerticalSpacing)
	}
}
