// Package drag implements the node drag state machine.
//
// A [Drag] moves through Idle → Dragging → Committed or Cancelled. It is
// created on pointer-down over a node and records the node's world origin,
// the pointer's screen position, and the camera scale at that moment. The
// scale stays fixed for the whole drag, so pointer deltas convert to world
// deltas as screen/k even if the view changes mid-gesture.
//
// Presses that never travel more than [ClickThreshold] screen pixels end as
// clicks and leave the node where it was. Anything further ends as a commit.
package drag

import (
	"fmt"

	"github.com/matzehuels/flowtower/pkg/geometry"
)

// ClickThreshold is the screen distance a press must travel to become a drag.
const ClickThreshold = 3.0

// State is the lifecycle stage of a drag.
type State int

const (
	Idle State = iota
	Dragging
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is what a released press amounted to.
type Outcome int

const (
	// None means nothing happened: the press moved but the node is not movable,
	// or the drag had already ended.
	None Outcome = iota
	// Click means the pointer stayed within ClickThreshold.
	Click
	// Commit means the node moved and its new position should be stored.
	Commit
)

// Result is returned by [Drag.End].
type Result struct {
	Outcome Outcome
	NodeID  string
	From    geometry.Point
	To      geometry.Point
}

// Drag tracks one press on one node.
type Drag struct {
	nodeID  string
	origin  geometry.Point
	press   geometry.Point
	scale   float64
	movable bool

	current geometry.Point
	moved   bool
	state   State
}

// Begin starts tracking a press at screen point pointer on node nodeID whose
// world position is origin. k is the camera scale at press time. When movable
// is false the press is tracked for click detection only.
func Begin(nodeID string, origin, pointer geometry.Point, k float64, movable bool) *Drag {
	if k <= 0 {
		k = 1
	}
	state := Idle
	if movable {
		state = Dragging
	}
	return &Drag{
		nodeID:  nodeID,
		origin:  origin,
		press:   pointer,
		scale:   k,
		movable: movable,
		current: origin,
		state:   state,
	}
}

// NodeID returns the pressed node.
func (d *Drag) NodeID() string { return d.nodeID }

// Origin returns the node's world position at press time.
func (d *Drag) Origin() geometry.Point { return d.origin }

// State returns the current state.
func (d *Drag) State() State { return d.state }

// Moved reports whether the pointer has left the click threshold.
func (d *Drag) Moved() bool { return d.moved }

// Position returns the node's temporary world position.
func (d *Drag) Position() geometry.Point { return d.current }

// Move feeds a pointer position. It returns the node's new temporary world
// position and true when the node should be repainted there.
func (d *Drag) Move(pointer geometry.Point) (geometry.Point, bool) {
	if d.state == Committed || d.state == Cancelled {
		return d.current, false
	}
	delta := pointer.Sub(d.press)
	if !d.moved && delta.Len() > ClickThreshold {
		d.moved = true
	}
	if !d.movable || !d.moved {
		return d.current, false
	}
	next := d.origin.Add(delta.Scale(1 / d.scale))
	if next == d.current {
		return d.current, false
	}
	d.current = next
	return next, true
}

// End releases the press.
func (d *Drag) End() Result {
	res := Result{NodeID: d.nodeID, From: d.origin, To: d.current}
	switch {
	case d.state == Committed || d.state == Cancelled:
		res.Outcome = None
	case !d.moved:
		res.Outcome = Click
		res.To = d.origin
		d.state = Cancelled
	case d.movable:
		res.Outcome = Commit
		d.state = Committed
	default:
		res.Outcome = None
		d.state = Cancelled
	}
	return res
}

// Cancel abandons the drag and returns the origin the node reverts to.
func (d *Drag) Cancel() geometry.Point {
	if d.state != Committed {
		d.state = Cancelled
		d.current = d.origin
	}
	return d.origin
}
