package diagram

import (
	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/drag"
)

// Mode names the active interaction of an instance.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModePinching
	ModeNodePress
	ModeNodeDrag
)

func (m Mode) String() string {
	switch m {
	case ModePanning:
		return "panning"
	case ModePinching:
		return "pinching"
	case ModeNodePress:
		return "node-press"
	case ModeNodeDrag:
		return "node-drag"
	default:
		return "idle"
	}
}

// interaction is the single active gesture. Exactly one of pan, pinch and
// press is set unless the interaction is idle.
type interaction struct {
	pan   *camera.Pan
	pinch *camera.Pinch
	press *drag.Drag
}

func (i interaction) mode() Mode {
	switch {
	case i.pan != nil:
		return ModePanning
	case i.pinch != nil:
		return ModePinching
	case i.press != nil && i.press.Moved():
		return ModeNodeDrag
	case i.press != nil:
		return ModeNodePress
	default:
		return ModeIdle
	}
}
