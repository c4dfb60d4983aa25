package workflow

import (
	"fmt"

	"github.com/matzehuels/flowtower/pkg/geometry"
)

// NodeType classifies a node and selects its shape.
type NodeType string

const (
	NodeStart      NodeType = "start"
	NodeEnd        NodeType = "end"
	NodeTask       NodeType = "task"
	NodeDecision   NodeType = "decision"
	NodeParallel   NodeType = "parallel"
	NodeSubprocess NodeType = "subprocess"
)

// NodeTypes lists every node type in declaration order.
var NodeTypes = []NodeType{NodeStart, NodeEnd, NodeTask, NodeDecision, NodeParallel, NodeSubprocess}

// Shape returns the outline used for nodes of this type.
func (t NodeType) Shape() geometry.Shape {
	switch t {
	case NodeStart, NodeEnd:
		return geometry.Circle
	case NodeDecision:
		return geometry.Diamond
	default:
		return geometry.Rectangle
	}
}

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	for _, v := range NodeTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Status is the execution state of a node.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusSkipped   Status = "skipped"
)

// Statuses lists every status in declaration order.
var Statuses = []Status{StatusPending, StatusActive, StatusCompleted, StatusError, StatusSkipped}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus converts a string into a Status. The empty string maps to
// StatusPending.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusPending, nil
	}
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Node is a single step of a workflow.
type Node struct {
	ID          string          `json:"id" yaml:"id"`
	Type        NodeType        `json:"nodeType" yaml:"nodeType"`
	Label       string          `json:"label" yaml:"label"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	Status      Status          `json:"status,omitempty" yaml:"status,omitempty"`
	Position    *geometry.Point `json:"position,omitempty" yaml:"position,omitempty"`
}

// Placed reports whether the node has a world position.
func (n *Node) Placed() bool { return n.Position != nil }

// Box returns the node's world-space bounding box for the given node size.
// An unplaced node is boxed at the origin.
func (n *Node) Box(size geometry.Size) geometry.Rect {
	var p geometry.Point
	if n.Position != nil {
		p = *n.Position
	}
	return geometry.RectAt(p, size)
}

// EffectiveStatus returns the node status, defaulting to pending.
func (n *Node) EffectiveStatus() Status {
	if n.Status == "" {
		return StatusPending
	}
	return n.Status
}

// Edge connects two nodes by ID.
type Edge struct {
	ID        string `json:"id" yaml:"id"`
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Animated  bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
}

// Text returns the display annotation of the edge: its label, its condition
// in brackets, or both.
func (e Edge) Text() string {
	switch {
	case e.Label != "" && e.Condition != "":
		return e.Label + " [" + e.Condition + "]"
	case e.Condition != "":
		return "[" + e.Condition + "]"
	default:
		return e.Label
	}
}
