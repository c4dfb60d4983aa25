package camera

import (
	"fmt"

	"github.com/matzehuels/flowtower/pkg/geometry"
)

// Transform is the world-to-screen map: screen = world*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform with no pan and unit scale.
var Identity = Transform{K: 1}

// Apply maps a world point to screen space.
func (t Transform) Apply(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// ApplyRect maps a world rectangle to screen space.
func (t Transform) ApplyRect(r geometry.Rect) geometry.Rect {
	p := t.Apply(r.Min())
	return geometry.Rect{X: p.X, Y: p.Y, W: r.W * t.K, H: r.H * t.K}
}

// Invert maps a screen point back to world space.
func (t Transform) Invert(p geometry.Point) geometry.Point {
	return geometry.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// SVG returns the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", t.X, t.Y, t.K)
}
