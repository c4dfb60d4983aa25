// Package io reads and writes workflow documents.
//
// # Format
//
// A document is a JSON or YAML object with a "nodes" array, an optional
// "edges" array, and optional diagram "options":
//
//	{
//	  "nodes": [
//	    {"id": "start", "nodeType": "start", "label": "Start"},
//	    {"id": "review", "nodeType": "decision", "label": "Review", "status": "active"},
//	    {"id": "done", "nodeType": "end", "label": "Done", "position": {"x": 0, "y": 0}}
//	  ],
//	  "edges": [
//	    {"id": "e1", "from": "start", "to": "review"},
//	    {"id": "e2", "from": "review", "to": "done", "label": "approved"}
//	  ],
//	  "options": {"direction": "vertical"}
//	}
//
// A node without "position" is placed by layout. A node with an explicit
// position, including the origin, keeps it.
//
// # Validation
//
// Documents are checked against an embedded JSON Schema before decoding, so
// unknown node types, statuses, directions and misspelled fields are
// rejected with the offending location. Duplicate node IDs are caught after
// decoding. Edges that reference unknown nodes are accepted here; the engine
// drops them at render time.
//
// # Import
//
// [Import] picks the decoder from the file extension (.json, .yaml, .yml);
// [Read] takes an explicit [Format]:
//
//	doc, err := io.Import("flow.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [Write] and [Export] always emit indented JSON, including positions, so a
// laid-out or dragged diagram can be saved and re-imported unchanged.
package io
