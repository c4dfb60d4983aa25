package diagram

import (
	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/drag"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/observability"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// PrimaryButton is the pointer button that starts pans and node drags.
const PrimaryButton = 0

// HitTest returns the id of the topmost node whose outline contains the
// screen point p, or "" when p is over empty canvas. Circles and diamonds
// are tested against their shape, not their box.
func (i *Instance) HitTest(p geometry.Point) string {
	world := i.camera.Transform().Invert(p)
	size := i.opts.NodeSize()
	for n := len(i.data.Nodes) - 1; n >= 0; n-- {
		node := &i.data.Nodes[n]
		if node.Placed() && geometry.Contains(node.Type.Shape(), node.Box(size), world) {
			return node.ID
		}
	}
	return ""
}

// PointerDown starts a node press or a canvas pan at screen point p. Only
// the primary button is handled.
func (i *Instance) PointerDown(p geometry.Point, button int) {
	if i.disposed || button != PrimaryButton {
		return
	}
	i.cancelInteraction()

	if id := i.HitTest(p); id != "" && (i.opts.Draggable || i.opts.Interactive) {
		node := i.data.Node(id)
		i.active = interaction{press: drag.Begin(id, *node.Position, p, i.camera.Transform().K, i.opts.Draggable)}
		return
	}
	i.active = interaction{pan: camera.NewPan(p)}
}

// PointerMove feeds the active pan or node press.
func (i *Instance) PointerMove(p geometry.Point) {
	if i.disposed {
		return
	}
	switch {
	case i.active.pan != nil:
		i.active.pan.Move(i.camera, p)
	case i.active.press != nil:
		if pos, ok := i.active.press.Move(p); ok {
			i.renderer.Reposition(i.active.press.NodeID(), pos)
		}
	}
}

// PointerUp ends the active interaction. A node press that stayed within
// the click threshold reports a click; a drag commits the new position and
// reports it.
func (i *Instance) PointerUp(p geometry.Point) {
	if i.disposed {
		return
	}
	if i.active.press != nil {
		i.PointerMove(p)
		i.release()
	}
	i.active = interaction{}
}

// PointerCancel abandons the active interaction.
func (i *Instance) PointerCancel() {
	if i.disposed {
		return
	}
	i.cancelInteraction()
}

// Wheel zooms around screen point at. A node drag in progress is cancelled.
func (i *Instance) Wheel(dy float64, at geometry.Point) {
	if i.disposed {
		return
	}
	if i.active.press != nil {
		i.cancelInteraction()
	}
	i.camera.Wheel(dy, at)
}

// TouchStart handles the touches currently on the surface. One touch acts as
// the primary pointer; two or more start a pinch on the first two.
func (i *Instance) TouchStart(touches []geometry.Point) {
	if i.disposed || len(touches) == 0 {
		return
	}
	if len(touches) == 1 {
		i.PointerDown(touches[0], PrimaryButton)
		return
	}
	i.cancelInteraction()
	i.active = interaction{pinch: camera.NewPinch(touches[0], touches[1])}
}

// TouchMove feeds the active pinch, pan or node press.
func (i *Instance) TouchMove(touches []geometry.Point) {
	if i.disposed || len(touches) == 0 {
		return
	}
	if i.active.pinch != nil {
		if len(touches) >= 2 {
			i.active.pinch.Move(i.camera, touches[0], touches[1])
		}
		return
	}
	i.PointerMove(touches[0])
}

// TouchEnd handles lifted touches; remaining lists the touches still down.
// A pinch ends when fewer than two remain. A single-touch press is released.
func (i *Instance) TouchEnd(remaining []geometry.Point) {
	if i.disposed {
		return
	}
	if i.active.pinch != nil {
		if len(remaining) < 2 {
			i.active = interaction{}
		}
		return
	}
	if len(remaining) == 0 {
		if i.active.press != nil {
			i.release()
		}
		i.active = interaction{}
	}
}

func (i *Instance) release() {
	res := i.active.press.End()
	i.active = interaction{}
	switch res.Outcome {
	case drag.Commit:
		node := i.data.Node(res.NodeID)
		if node == nil {
			return
		}
		to := res.To
		node.Position = &to
		i.manual[res.NodeID] = true
		i.renderer.Reposition(res.NodeID, to)
		i.notifier.NodePositionChanged(i.id, res.NodeID, res.From, res.To)
		observability.Diagram().OnDragCommit(i.ctx, i.id, res.NodeID)
	case drag.Click:
		if !i.opts.Interactive {
			return
		}
		if node := i.data.Node(res.NodeID); node != nil {
			i.notifier.NodeClick(i.id, *clone(node))
		}
	}
}

// cancelInteraction ends the active interaction without effect. A node that
// was being dragged is redrawn at its origin.
func (i *Instance) cancelInteraction() {
	if d := i.active.press; d != nil {
		moved := d.Moved()
		origin := d.Cancel()
		if moved {
			i.renderer.Reposition(d.NodeID(), origin)
		}
	}
	i.active = interaction{}
}

func clone(n *workflow.Node) *workflow.Node {
	c := *n
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	return &c
}
