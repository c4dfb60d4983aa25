package geometry

import (
	"math"
	"testing"
)

func TestConnectionPoint(t *testing.T) {
	box := Rect{X: 0, Y: 0, W: 100, H: 60}
	tests := []struct {
		shape Shape
		side  Side
		want  Point
	}{
		{Rectangle, Left, Pt(0, 30)},
		{Rectangle, Right, Pt(100, 30)},
		{Rectangle, Top, Pt(50, 0)},
		{Rectangle, Bottom, Pt(50, 60)},
		{Diamond, Right, Pt(100, 30)},
		{Diamond, Top, Pt(50, 0)},
		{Circle, Left, Pt(20, 30)},
		{Circle, Right, Pt(80, 30)},
		{Circle, Top, Pt(50, 0)},
		{Circle, Bottom, Pt(50, 60)},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String()+"/"+tt.side.String(), func(t *testing.T) {
			if got := ConnectionPoint(tt.shape, box, tt.side); got != tt.want {
				t.Errorf("ConnectionPoint() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	box := Rect{X: 0, Y: 0, W: 100, H: 100}
	if !Contains(Circle, box, Pt(50, 50)) {
		t.Error("circle should contain its center")
	}
	if Contains(Circle, box, Pt(2, 2)) {
		t.Error("circle should not contain the box corner")
	}
	if !Contains(Diamond, box, Pt(50, 5)) {
		t.Error("diamond should contain a point near its top vertex")
	}
	if Contains(Diamond, box, Pt(10, 10)) {
		t.Error("diamond should not contain the box corner")
	}
	if !Contains(Rectangle, box, Pt(100, 100)) {
		t.Error("rectangle contains its edges")
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 20, Y: -5, W: 5, H: 5}
	u := a.Union(b)
	if u != (Rect{X: 0, Y: -5, W: 25, H: 15}) {
		t.Errorf("Union() = %+v", u)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("Union with empty = %+v", got)
	}
	if b, ok := Bounds([]Rect{a, b}); !ok || b != u {
		t.Errorf("Bounds() = %+v, %v", b, ok)
	}
	if _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) should report false")
	}
}

func TestPointMath(t *testing.T) {
	p := Pt(3, 4)
	if p.Len() != 5 {
		t.Errorf("Len() = %v", p.Len())
	}
	if got := p.Mid(Pt(5, 6)); got != Pt(4, 5) {
		t.Errorf("Mid() = %+v", got)
	}
	if math.Abs(Pt(0, 0).Dist(p)-5) > 1e-12 {
		t.Error("Dist mismatch")
	}
}
