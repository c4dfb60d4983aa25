package geometry

import "fmt"

// Side names one of the four boundary directions of a node.
type Side int

const (
	Left Side = iota
	Right
	Top
	Bottom
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Shape is the outline variant of a node.
type Shape int

const (
	Rectangle Shape = iota
	Circle
	Diamond
)

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Diamond:
		return "diamond"
	default:
		return "rectangle"
	}
}

// ConnectionPoint returns the point on the outline of a node of shape s,
// occupying box, where an edge attaches on the given side.
func ConnectionPoint(s Shape, box Rect, side Side) Point {
	c := box.Center()
	switch s {
	case Circle:
		r := min(box.W, box.H) / 2
		switch side {
		case Left:
			return Point{c.X - r, c.Y}
		case Right:
			return Point{c.X + r, c.Y}
		case Top:
			return Point{c.X, c.Y - r}
		default:
			return Point{c.X, c.Y + r}
		}
	default:
		// Diamond vertices coincide with the rectangle edge midpoints.
		switch side {
		case Left:
			return Point{box.X, c.Y}
		case Right:
			return Point{box.X + box.W, c.Y}
		case Top:
			return Point{c.X, box.Y}
		default:
			return Point{c.X, box.Y + box.H}
		}
	}
}

// Radius returns the circle radius used for a box, min(w,h)/2.
func Radius(box Rect) float64 { return min(box.W, box.H) / 2 }

// DiamondVertices returns the four diamond vertices of box in
// top, right, bottom, left order.
func DiamondVertices(box Rect) []Point {
	return []Point{
		ConnectionPoint(Diamond, box, Top),
		ConnectionPoint(Diamond, box, Right),
		ConnectionPoint(Diamond, box, Bottom),
		ConnectionPoint(Diamond, box, Left),
	}
}

// Contains reports whether p lies inside the outline of shape s occupying box.
func Contains(s Shape, box Rect, p Point) bool {
	c := box.Center()
	switch s {
	case Circle:
		return p.Dist(c) <= Radius(box)
	case Diamond:
		if box.Empty() {
			return false
		}
		dx := abs(p.X-c.X) / (box.W / 2)
		dy := abs(p.Y-c.Y) / (box.H / 2)
		return dx+dy <= 1
	default:
		return box.Contains(p)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
