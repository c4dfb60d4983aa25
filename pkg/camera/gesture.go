package camera

import "github.com/matzehuels/flowtower/pkg/geometry"

// Pan tracks a primary-button drag over empty canvas.
type Pan struct {
	last geometry.Point
}

// NewPan starts a pan at screen point p.
func NewPan(p geometry.Point) *Pan { return &Pan{last: p} }

// Move pans c by the movement since the previous pointer position.
func (g *Pan) Move(c *Camera, p geometry.Point) {
	d := p.Sub(g.last)
	g.last = p
	c.PanBy(d.X, d.Y)
}

// Pinch tracks a two-finger gesture. Each frame zooms by the ratio of finger
// distances around the current midpoint and pans by the midpoint movement.
type Pinch struct {
	dist float64
	mid  geometry.Point
}

// NewPinch starts a pinch with touches a and b.
func NewPinch(a, b geometry.Point) *Pinch {
	return &Pinch{dist: a.Dist(b), mid: a.Mid(b)}
}

// Move applies one gesture frame to c as a single commit.
func (g *Pinch) Move(c *Camera, a, b geometry.Point) {
	dist, mid := a.Dist(b), a.Mid(b)
	t := c.Transform()
	if g.dist > 0 && dist > 0 {
		t = c.zoomed(t.K*dist/g.dist, mid)
	}
	d := mid.Sub(g.mid)
	t.X += d.X
	t.Y += d.Y
	c.commit(t)
	g.dist, g.mid = dist, mid
}
