package scene

import (
	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/geometry"
)

// Layer selects the stacking group of a primitive.
type Layer int

const (
	LayerEdges Layer = iota
	LayerNodes
)

// Kind is the geometric type of a primitive.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
	KindPolygon
	KindPath
	KindText
)

// Primitive is a shape drawn on a surface. Drawing a primitive whose ID is
// already present replaces it.
type Primitive struct {
	ID   string
	Kind Kind

	Rect   geometry.Rect    // KindRect
	Radius float64          // KindRect corner radius, KindCircle radius
	Center geometry.Point   // KindCircle, KindText anchor
	Points []geometry.Point // KindPolygon
	D      string           // KindPath
	Text   string           // KindText

	Fill        string
	Stroke      string
	StrokeWidth float64
	Dashed      bool
	Filter      string // def ID of a glow filter
	MarkerEnd   string // def ID of an arrowhead marker
	Class       string
	Data        map[string]string // data-* attributes
}

// DefKind is the type of a reusable definition.
type DefKind int

const (
	DefArrow DefKind = iota
	DefGlow
)

// Def is a reusable marker or filter referenced by ID.
type Def struct {
	ID    string
	Kind  DefKind
	Color string
}

// Label is rich text anchored at a rectangle, usually a node box.
type Label struct {
	ID       string
	Anchor   geometry.Rect
	Title    string
	Subtitle string
	Icon     string
	Color    string
}

// Surface is the drawing capability the renderer consumes.
type Surface interface {
	// Size returns the container size in device-independent units.
	Size() geometry.Size
	// Reset removes every scene element, keeping fixed chrome.
	Reset()
	// Define adds or replaces a reusable definition.
	Define(d Def)
	// Draw adds or replaces a primitive on a layer.
	Draw(layer Layer, p Primitive)
	// Label adds or replaces a label; labels paint above both layers.
	Label(l Label)
	// SetTransform applies the view transform to the whole scene.
	SetTransform(t camera.Transform)
	// Snapshot captures the current scene as a standalone SVG document.
	Snapshot() ([]byte, error)
}

// Resizer is implemented by surfaces whose container can change size.
type Resizer interface {
	Resize(size geometry.Size)
}

// Fullscreener is implemented by surfaces that can change presentation mode.
type Fullscreener interface {
	SetFullscreen(on bool)
}
