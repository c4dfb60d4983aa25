package camera

import (
	"math"
	"testing"

	"github.com/matzehuels/flowtower/pkg/geometry"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= eps*math.Max(1, math.Abs(b)) }

func TestZoomClamp(t *testing.T) {
	c := New(0.1, 3)
	c.SetViewport(geometry.Size{W: 800, H: 600})

	for range 100 {
		c.ZoomIn()
	}
	if got := c.Transform().K; got != 3 {
		t.Errorf("after 100 ZoomIn k = %v, want 3", got)
	}
	for range 100 {
		c.ZoomOut()
	}
	if got := c.Transform().K; got != 0.1 {
		t.Errorf("after 100 ZoomOut k = %v, want 0.1", got)
	}
}

func TestFocalPointInvariance(t *testing.T) {
	starts := []Transform{
		{X: 0, Y: 0, K: 1},
		{X: 120, Y: -40, K: 0.5},
		{X: -300, Y: 75, K: 2.25},
	}
	focals := []geometry.Point{{X: 0, Y: 0}, {X: 400, Y: 300}, {X: 13, Y: 577}}
	deltas := []float64{0.2, -0.1, 0.5, -0.3}

	for _, start := range starts {
		for _, f := range focals {
			for _, d := range deltas {
				c := New(0.1, 3)
				c.Set(start)
				world := c.Transform().Invert(f)
				c.Zoom(d, f)
				got := c.Transform().Apply(world)
				if !near(got.X, f.X) || !near(got.Y, f.Y) {
					t.Errorf("start=%v focal=%v delta=%v: world point moved to %v", start, f, d, got)
				}
			}
		}
	}
}

func TestWheel(t *testing.T) {
	c := New(0.1, 3)
	c.Wheel(-100, geometry.Point{})
	if !near(c.Transform().K, 1.2) {
		t.Errorf("wheel -100: k = %v, want 1.2", c.Transform().K)
	}

	c.Reset()
	c.Wheel(-10000, geometry.Point{})
	if !near(c.Transform().K, 1.5) {
		t.Errorf("wheel delta should clamp to +0.5: k = %v", c.Transform().K)
	}
}

func TestPanBy(t *testing.T) {
	c := New(0.1, 3)
	c.PanBy(10, -5)
	c.PanBy(2, 2)
	if got := c.Transform(); got != (Transform{X: 12, Y: -3, K: 1}) {
		t.Errorf("PanBy = %+v", got)
	}
}

func TestFitToBoundsContainment(t *testing.T) {
	viewports := []geometry.Size{{W: 800, H: 600}, {W: 300, H: 900}, {W: 1920, H: 1080}}
	boxes := [][]geometry.Rect{
		{{X: 0, Y: 0, W: 180, H: 60}},
		{{X: 0, Y: 0, W: 180, H: 60}, {X: 1200, Y: 400, W: 180, H: 60}},
		{{X: -500, Y: -200, W: 180, H: 60}, {X: 40, Y: 900, W: 180, H: 60}},
	}
	for _, vp := range viewports {
		for _, nodes := range boxes {
			c := New(0.1, 3)
			c.SetViewport(vp)
			bounds, _ := geometry.Bounds(nodes)
			if !c.FitToBounds(bounds) {
				t.Fatal("FitToBounds should succeed")
			}
			screen := geometry.Rect{W: vp.W, H: vp.H}.Inset(FitPadding)
			for _, n := range nodes {
				r := c.Transform().ApplyRect(n)
				if !screen.ContainsRect(r, 1e-6) {
					t.Errorf("viewport %v: node %v maps to %v outside %v", vp, n, r, screen)
				}
			}
		}
	}
}

func TestFitToBoundsNeverUpscales(t *testing.T) {
	c := New(0.1, 3)
	c.SetViewport(geometry.Size{W: 4000, H: 4000})
	c.FitToBounds(geometry.Rect{W: 10, H: 10})
	if got := c.Transform().K; !near(got, FitFactor) {
		t.Errorf("k = %v, want %v", got, FitFactor)
	}
}

func TestFitToBoundsNoop(t *testing.T) {
	c := New(0.1, 3)
	c.PanBy(5, 5)
	if c.FitToBounds(geometry.Rect{W: 100, H: 100}) {
		t.Error("fit with zero viewport should be a no-op")
	}
	c.SetViewport(geometry.Size{W: 100, H: 100})
	if c.FitToBounds(geometry.Rect{}) {
		t.Error("fit with empty bounds should be a no-op")
	}
	if got := c.Transform(); got != (Transform{X: 5, Y: 5, K: 1}) {
		t.Errorf("transform changed: %+v", got)
	}
}

func TestReset(t *testing.T) {
	c := New(0.1, 3)
	c.PanBy(40, 40)
	c.Zoom(0.5, geometry.Point{X: 10, Y: 10})
	c.Reset()
	if got := c.Transform(); got != Identity {
		t.Errorf("Reset() = %+v", got)
	}
}

func TestOnChange(t *testing.T) {
	c := New(0.1, 3)
	var calls int
	var last Transform
	c.OnChange = func(tr Transform) {
		calls++
		last = tr
	}
	c.PanBy(1, 1)
	c.PanBy(0, 0)
	c.ZoomIn()
	if calls != 2 {
		t.Errorf("OnChange calls = %d, want 2", calls)
	}
	if last != c.Transform() {
		t.Errorf("OnChange reported %+v, camera at %+v", last, c.Transform())
	}
}

func TestSetLimitsReclamps(t *testing.T) {
	c := New(0.1, 3)
	c.Set(Transform{K: 2.5})
	c.SetLimits(0.1, 2)
	if got := c.Transform().K; got != 2 {
		t.Errorf("k = %v, want 2", got)
	}
}

func TestPinch(t *testing.T) {
	c := New(0.1, 3)
	g := NewPinch(geometry.Pt(100, 100), geometry.Pt(200, 100))

	// Fingers spread to twice the distance around the same midpoint.
	g.Move(c, geometry.Pt(50, 100), geometry.Pt(250, 100))
	tr := c.Transform()
	if !near(tr.K, 2) {
		t.Fatalf("k = %v, want 2", tr.K)
	}
	if p := tr.Apply(geometry.Pt(150, 100)); !near(p.X, 150) || !near(p.Y, 100) {
		t.Errorf("midpoint drifted to %v", p)
	}

	// Both fingers move right by 30: pure pan.
	g.Move(c, geometry.Pt(80, 100), geometry.Pt(280, 100))
	if got := c.Transform(); !near(got.X, tr.X+30) || got.K != tr.K {
		t.Errorf("pan frame = %+v, from %+v", got, tr)
	}
}

func TestPan(t *testing.T) {
	c := New(0.1, 3)
	g := NewPan(geometry.Pt(10, 10))
	g.Move(c, geometry.Pt(15, 20))
	g.Move(c, geometry.Pt(16, 20))
	if got := c.Transform(); got != (Transform{X: 6, Y: 10, K: 1}) {
		t.Errorf("Pan = %+v", got)
	}
}
