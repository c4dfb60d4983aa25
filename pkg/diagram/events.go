package diagram

import (
	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Notifier receives user-driven events from an instance. Host-initiated
// mutations never produce notifications.
type Notifier interface {
	// NodeClick reports a press and release on a node that stayed within the
	// click threshold. node is a copy of the clicked node.
	NodeClick(instance string, node workflow.Node)
	// NodePositionChanged reports a committed drag.
	NodePositionChanged(instance, nodeID string, from, to geometry.Point)
	// TransformChanged reports every committed camera transform.
	TransformChanged(instance string, t camera.Transform)
}

// Events adapts plain functions to a Notifier. Nil fields are skipped.
type Events struct {
	OnNodeClick           func(instance string, node workflow.Node)
	OnNodePositionChanged func(instance, nodeID string, from, to geometry.Point)
	OnTransformChanged    func(instance string, t camera.Transform)
}

func (e Events) NodeClick(instance string, node workflow.Node) {
	if e.OnNodeClick != nil {
		e.OnNodeClick(instance, node)
	}
}

func (e Events) NodePositionChanged(instance, nodeID string, from, to geometry.Point) {
	if e.OnNodePositionChanged != nil {
		e.OnNodePositionChanged(instance, nodeID, from, to)
	}
}

func (e Events) TransformChanged(instance string, t camera.Transform) {
	if e.OnTransformChanged != nil {
		e.OnTransformChanged(instance, t)
	}
}
