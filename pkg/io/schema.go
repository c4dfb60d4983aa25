package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Sentinel errors for document handling.
var (
	// ErrUnknownFormat is returned for an unsupported file extension or format.
	ErrUnknownFormat = errors.New("unknown document format")

	// ErrMalformed is returned when a document cannot be parsed.
	ErrMalformed = errors.New("malformed document")

	// ErrSchema is returned when a document violates the workflow schema.
	ErrSchema = errors.New("document does not match schema")
)

const schemaURL = "https://flowtower.dev/schemas/workflow.json"

// SchemaJSON is the JSON Schema every workflow document must satisfy.
const SchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowtower.dev/schemas/workflow.json",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": { "$ref": "#/$defs/node" }
    },
    "edges": {
      "type": "array",
      "items": { "$ref": "#/$defs/edge" }
    },
    "options": { "$ref": "#/$defs/options" }
  },
  "additionalProperties": false,
  "$defs": {
    "node": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "nodeType": {
          "type": "string",
          "enum": ["start", "end", "task", "decision", "parallel", "subprocess"]
        },
        "label": { "type": "string" },
        "description": { "type": "string" },
        "icon": { "type": "string" },
        "status": {
          "type": "string",
          "enum": ["pending", "active", "completed", "error", "skipped"]
        },
        "position": { "$ref": "#/$defs/point" }
      },
      "additionalProperties": false
    },
    "edge": {
      "type": "object",
      "required": ["from", "to"],
      "properties": {
        "id": { "type": "string" },
        "from": { "type": "string", "minLength": 1 },
        "to": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "condition": { "type": "string" },
        "animated": { "type": "boolean" }
      },
      "additionalProperties": false
    },
    "point": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {
        "x": { "type": "number" },
        "y": { "type": "number" }
      },
      "additionalProperties": false
    },
    "options": {
      "type": "object",
      "properties": {
        "nodeWidth": { "type": "number", "exclusiveMinimum": 0 },
        "nodeHeight": { "type": "number", "exclusiveMinimum": 0 },
        "horizontalSpacing": { "type": "number", "minimum": 0 },
        "verticalSpacing": { "type": "number", "minimum": 0 },
        "direction": { "type": "string", "enum": ["horizontal", "vertical"] },
        "minZoom": { "type": "number", "exclusiveMinimum": 0 },
        "maxZoom": { "type": "number", "exclusiveMinimum": 0 },
        "draggable": { "type": "boolean" },
        "interactive": { "type": "boolean" },
        "animated": { "type": "boolean" },
        "fitToScreen": { "type": "boolean" }
      },
      "additionalProperties": false
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func workflowSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.AssertFormat()
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(SchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal workflow schema: %w", err)
			return
		}
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add workflow schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks a decoded document (maps, slices and scalars, as
// produced by encoding/json or yaml.v3) against [SchemaJSON].
func ValidateSchema(v any) error {
	s, err := workflowSchema()
	if err != nil {
		return err
	}
	doc, err := toJSONValue(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrSchema, firstCause(ve))
		}
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// toJSONValue round-trips v through JSON so numbers become json.Number and
// maps become map[string]any, the shapes the validator expects.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// firstCause returns the most specific validation failure as "location: message".
func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := "/" + strings.Join(ve.InstanceLocation, "/")
	return fmt.Sprintf("%s: %s", loc, ve.Error())
}
