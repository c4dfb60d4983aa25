// Package route computes the curved connector drawn between two nodes.
//
// Paths leave the source on its trailing side (right in horizontal layouts,
// bottom in vertical ones) and enter the target on its leading side. The
// curve is a cubic Bézier whose control points sit on the main axis at a
// distance proportional to the gap between the endpoints, capped at
// [MaxCurvature] so long edges do not balloon.
//
// [Between] only reads the two endpoint nodes, so dragging a node needs to
// recompute just the edges listed for it in an [Index].
package route

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// MaxCurvature caps the control-point offset in world units.
const MaxCurvature = 80.0

// curvature is the fraction of the main-axis gap used as control offset.
const curvature = 0.4

// Path is a cubic Bézier segment from Start to End.
type Path struct {
	Start, C1, C2, End geometry.Point
}

// Between returns the connector from node from to node to.
func Between(from, to *workflow.Node, opts workflow.Options) Path {
	size := opts.NodeSize()
	fb, tb := from.Box(size), to.Box(size)

	if opts.Direction == workflow.Vertical {
		start := geometry.ConnectionPoint(from.Type.Shape(), fb, geometry.Bottom)
		end := geometry.ConnectionPoint(to.Type.Shape(), tb, geometry.Top)
		off := math.Min(math.Abs(end.Y-start.Y)*curvature, MaxCurvature)
		return Path{
			Start: start,
			C1:    geometry.Point{X: start.X, Y: start.Y + off},
			C2:    geometry.Point{X: end.X, Y: end.Y - off},
			End:   end,
		}
	}

	start := geometry.ConnectionPoint(from.Type.Shape(), fb, geometry.Right)
	end := geometry.ConnectionPoint(to.Type.Shape(), tb, geometry.Left)
	off := math.Min(math.Abs(end.X-start.X)*curvature, MaxCurvature)
	return Path{
		Start: start,
		C1:    geometry.Point{X: start.X + off, Y: start.Y},
		C2:    geometry.Point{X: end.X - off, Y: end.Y},
		End:   end,
	}
}

// At evaluates the curve at parameter t in [0,1].
func (p Path) At(t float64) geometry.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geometry.Point{
		X: a*p.Start.X + b*p.C1.X + c*p.C2.X + d*p.End.X,
		Y: a*p.Start.Y + b*p.C1.Y + c*p.C2.Y + d*p.End.Y,
	}
}

// Midpoint returns the curve point at t=0.5, where edge labels are anchored.
func (p Path) Midpoint() geometry.Point { return p.At(0.5) }

// D returns the SVG path data for the curve.
func (p Path) D() string {
	return fmt.Sprintf("M%s C%s %s %s", num(p.Start), num(p.C1), num(p.C2), num(p.End))
}

func num(p geometry.Point) string {
	return fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
}
