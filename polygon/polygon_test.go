package polygon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircleToPolygon_ClosedAndCCW(t *testing.T) {
	p := CircleToPolygon(1.0, NumSteps, 0)
	assert.True(t, p.Closed(1e-9))
	assert.True(t, p.IsCCW())
	assert.Equal(t, NumSteps+1, p.Len())
}

func TestRectangleToPolygon(t *testing.T) {
	p := RectangleToPolygon(2, 1)
	assert.True(t, p.Closed(Epsilon))
	b := BoundsOf(p)
	assert.InDelta(t, -1.0, b.MinX, 1e-9)
	assert.InDelta(t, 1.0, b.MaxX, 1e-9)
	assert.InDelta(t, -0.5, b.MinY, 1e-9)
	assert.InDelta(t, 0.5, b.MaxY, 1e-9)
}

func TestObroundToPolygon_DegenerateToCircle(t *testing.T) {
	p := ObroundToPolygon(2, 2)
	assert.True(t, p.Closed(1e-9))
	b := BoundsOf(p)
	assert.InDelta(t, 2.0, b.MaxX-b.MinX, 1e-6)
	assert.InDelta(t, 2.0, b.MaxY-b.MinY, 1e-6)
}

func TestObroundToPolygon_Wide(t *testing.T) {
	p := ObroundToPolygon(4, 2)
	b := BoundsOf(p)
	assert.InDelta(t, 4.0, b.MaxX-b.MinX, 1e-6)
	assert.InDelta(t, 2.0, b.MaxY-b.MinY, 1e-6)
}

func TestArcToPolygon_HalfCircle(t *testing.T) {
	start := [2]float64{10, 0}
	end := [2]float64{-10, 0}
	center := [2]float64{0, 0}
	p := ArcToPolygon(start, end, center, true, true)
	x0, y0 := p.At(0)
	xn, yn := p.At(p.Len() - 1)
	assert.InDelta(t, 10.0, x0, 1e-9)
	assert.InDelta(t, 0.0, y0, 1e-9)
	assert.InDelta(t, -10.0, xn, 1e-9)
	assert.InDelta(t, 0.0, yn, 1e-9)
}

func TestTranslateScaleRotateMirror(t *testing.T) {
	p := Polygon{1, 0}
	p.Translate(1, 1)
	assert.Equal(t, Polygon{2, 1}, p)

	p2 := Polygon{2, 3}
	p2.Scale(2, 0.5)
	assert.Equal(t, Polygon{4, 1.5}, p2)

	p3 := Polygon{1, 0}
	p3.Rotate(math.Pi / 2)
	assert.InDelta(t, 0.0, p3[0], 1e-9)
	assert.InDelta(t, 1.0, p3[1], 1e-9)

	p4 := Polygon{1, 2}
	p4.Mirror(AxisX)
	assert.Equal(t, Polygon{1, -2}, p4)
	p4.Mirror(AxisY)
	assert.Equal(t, Polygon{-1, -2}, p4)
}

func TestSimplifyPolygon_DropsCollinearAndDuplicates(t *testing.T) {
	// Square with a redundant midpoint on the bottom edge and a duplicate vertex.
	p := Polygon{
		0, 0,
		0, 0, // duplicate
		5, 0, // collinear midpoint
		10, 0,
		10, 10,
		0, 10,
	}
	out := SimplifyPolygon(p, 1e-9)
	assert.Equal(t, 4, out.Len())
}

func TestBoundsUnion(t *testing.T) {
	b1 := Bounds{0, 0, 1, 1}
	b2 := Bounds{-1, -1, 0.5, 0.5}
	u := b1.Union(b2)
	assert.Equal(t, Bounds{-1, -1, 1, 1}, u)
}

func TestConnectWires(t *testing.T) {
	a := Polygon{0, 0, 1, 0}
	b := Polygon{1, 0, 2, 0}
	c := Polygon{5, 5, 6, 5}
	out := ConnectWires(Set{a, b, c}, 1e-6)
	assert.Len(t, out, 2)
}
