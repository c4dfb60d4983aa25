// Package camera owns the pan/zoom view transform of a diagram.
//
// A [Camera] holds a single [Transform] and keeps its scale within the
// configured zoom range at all times. Every operation that changes the
// transform commits it through one path, which clamps the scale and reports
// the new value to the OnChange callback.
//
// Zooming is anchored at a focal point: the world point under the focal
// screen pixel before the zoom is still under it afterwards.
package camera

import (
	"math"

	"github.com/matzehuels/flowtower/pkg/geometry"
)

// View constants.
const (
	// ZoomStep is the multiplicative step of ZoomIn and ZoomOut.
	ZoomStep = 1.2
	// WheelSensitivity converts wheel units into a zoom fraction.
	WheelSensitivity = 0.002
	// MaxWheelDelta bounds the zoom fraction of a single wheel event.
	MaxWheelDelta = 0.5
	// FitPadding is added around content bounds before fitting.
	FitPadding = 60.0
	// FitFactor leaves a margin around fitted content.
	FitFactor = 0.9
)

// Camera is the pan/zoom controller of one diagram instance.
type Camera struct {
	t        Transform
	minZoom  float64
	maxZoom  float64
	viewport geometry.Size

	// OnChange, when set, is called after every committed transform.
	OnChange func(Transform)
}

// New returns a camera at the identity transform (clamped into range).
func New(minZoom, maxZoom float64) *Camera {
	c := &Camera{minZoom: minZoom, maxZoom: maxZoom}
	c.t = Transform{K: c.clamp(1)}
	return c
}

// Transform returns the current transform.
func (c *Camera) Transform() Transform { return c.t }

// Limits returns the zoom range.
func (c *Camera) Limits() (minZoom, maxZoom float64) { return c.minZoom, c.maxZoom }

// SetLimits changes the zoom range and re-clamps the current scale around the
// viewport center.
func (c *Camera) SetLimits(minZoom, maxZoom float64) {
	c.minZoom, c.maxZoom = minZoom, maxZoom
	if k := c.clamp(c.t.K); k != c.t.K {
		c.zoomTo(k, c.center())
	}
}

// Viewport returns the container size.
func (c *Camera) Viewport() geometry.Size { return c.viewport }

// SetViewport records the container size used by ZoomIn, ZoomOut and Fit.
func (c *Camera) SetViewport(s geometry.Size) { c.viewport = s }

// Set commits t, clamping its scale.
func (c *Camera) Set(t Transform) {
	c.commit(t)
}

// Zoom scales by (1+delta) keeping focal (screen space) fixed.
func (c *Camera) Zoom(delta float64, focal geometry.Point) {
	c.zoomTo(c.t.K*(1+delta), focal)
}

// ZoomIn zooms one step around the viewport center.
func (c *Camera) ZoomIn() { c.Zoom(ZoomStep-1, c.center()) }

// ZoomOut zooms out one step around the viewport center.
func (c *Camera) ZoomOut() { c.Zoom(1/ZoomStep-1, c.center()) }

// Wheel applies a wheel event of dy units at screen point at. Scrolling up
// (negative dy) zooms in.
func (c *Camera) Wheel(dy float64, at geometry.Point) {
	delta := math.Max(-MaxWheelDelta, math.Min(MaxWheelDelta, -dy*WheelSensitivity))
	c.Zoom(delta, at)
}

// PanBy translates the view by (dx, dy) screen pixels.
func (c *Camera) PanBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	t := c.t
	t.X += dx
	t.Y += dy
	c.commit(t)
}

// FitToBounds frames the world rectangle bounds in the viewport. It reports
// false and leaves the transform alone when bounds or the viewport is empty.
func (c *Camera) FitToBounds(bounds geometry.Rect) bool {
	if bounds.Empty() || c.viewport.Empty() {
		return false
	}
	content := bounds.Inset(FitPadding)
	scale := math.Min(math.Min(c.viewport.W/content.W, c.viewport.H/content.H), 1) * FitFactor
	k := c.clamp(scale)
	center := content.Center()
	c.commit(Transform{
		X: c.viewport.W/2 - center.X*k,
		Y: c.viewport.H/2 - center.Y*k,
		K: k,
	})
	return true
}

// Reset restores the identity transform.
func (c *Camera) Reset() { c.commit(Identity) }

func (c *Camera) zoomTo(newK float64, focal geometry.Point) {
	c.commit(c.zoomed(newK, focal))
}

// zoomed returns the transform at scale newK (clamped) anchored at focal.
func (c *Camera) zoomed(newK float64, focal geometry.Point) Transform {
	newK = c.clamp(newK)
	k := c.t.K
	if k == 0 {
		k = 1
	}
	ratio := newK / k
	return Transform{
		X: focal.X - (focal.X-c.t.X)*ratio,
		Y: focal.Y - (focal.Y-c.t.Y)*ratio,
		K: newK,
	}
}

func (c *Camera) commit(t Transform) {
	t.K = c.clamp(t.K)
	c.t = t
	if c.OnChange != nil {
		c.OnChange(t)
	}
}

func (c *Camera) center() geometry.Point {
	return geometry.Point{X: c.viewport.W / 2, Y: c.viewport.H / 2}
}

func (c *Camera) clamp(k float64) float64 {
	if math.IsNaN(k) || k <= 0 {
		k = c.minZoom
	}
	return math.Max(c.minZoom, math.Min(c.maxZoom, k))
}
