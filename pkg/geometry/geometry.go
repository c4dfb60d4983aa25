// Package geometry provides the 2D primitives and node shape math used by the
// workflow diagram engine.
//
// All coordinates are float64. World-space values are produced by layout and
// dragging; screen-space values come from pointer input and the camera.
//
// # Shapes
//
// Node outlines form a closed set of three variants, selected by node type:
//
//   - [Circle]: start and end nodes, radius min(w,h)/2 around the box center
//   - [Diamond]: decision nodes, vertices at the box edge midpoints
//   - [Rectangle]: every other node type
//
// [ConnectionPoint] returns where an edge meets a node outline on a given [Side].
package geometry

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Len returns the distance of p from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return q.Sub(p).Len() }

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }

// Size is a width/height pair in device-independent units.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// RectAt returns the rectangle of size s with its top-left corner at p.
func RectAt(p Point, s Size) Rect { return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H} }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Empty reports whether the rectangle has zero or negative area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsRect reports whether o lies entirely inside r, allowing eps of slack.
func (r Rect) ContainsRect(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.X+o.W <= r.X+r.W+eps && o.Y+o.H <= r.Y+r.H+eps
}

// Inset grows the rectangle by d on every side (shrinks when d is negative).
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Bounds returns the union of all rectangles, or an empty Rect and false when
// rects is empty.
func Bounds(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	b := rects[0]
	for _, r := range rects[1:] {
		x0, y0 := min(b.X, r.X), min(b.Y, r.Y)
		x1, y1 := max(b.X+b.W, r.X+r.W), max(b.Y+b.H, r.Y+r.H)
		b = Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	}
	return b, true
}
