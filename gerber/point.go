package gerber

import (
	"math"

	"github.com/gmlewis/go-gerber-image/polygon"
	"github.com/gmlewis/go3d/float64/vec2"
)

// Point is a 2-D coordinate used throughout command execution and
// primitive construction. Field layout mirrors the teacher's own Pt
// (gerber/primitives.go in the original go-gerber writer); vector
// arithmetic below is expressed over go3d's vec2.T, the teacher's own
// dependency for 2-D vector math (originally used there for glyph-curve
// sampling in gerber/text.go).
type Point struct {
	X, Y float64
}

// IsValid reports whether both components are finite.
func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) vec() vec2.T { return vec2.T{p.X, p.Y} }

func fromVec(v vec2.T) Point { return Point{X: v[0], Y: v[1]} }

// Add returns p+o.
func (p Point) Add(o Point) Point {
	a, b := p.vec(), o.vec()
	return fromVec(vec2.T{a[0] + b[0], a[1] + b[1]})
}

// Sub returns p-o.
func (p Point) Sub(o Point) Point {
	a, b := p.vec(), o.vec()
	return fromVec(vec2.T{a[0] - b[0], a[1] - b[1]})
}

// Scale returns p scaled by f about the origin.
func (p Point) Scale(f float64) Point {
	v := p.vec()
	return fromVec(vec2.T{v[0] * f, v[1] * f})
}

// Mirror reflects p across the given axis.
func (p Point) Mirror(axis polygon.Axis) Point {
	v := p.vec()
	switch axis {
	case polygon.AxisX:
		return fromVec(vec2.T{v[0], -v[1]})
	case polygon.AxisY:
		return fromVec(vec2.T{-v[0], v[1]})
	case polygon.AxisXY:
		return fromVec(vec2.T{-v[0], -v[1]})
	default:
		return p
	}
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) float64 { return math.Hypot(p.X-o.X, p.Y-o.Y) }

// Distance2 returns the squared Euclidean distance between p and o.
func (p Point) Distance2(o Point) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}

// Angle returns the angle (radians) of the vector p, measured from the
// positive X axis.
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// AngleFrom returns the angle (radians) of the vector from o to p.
func (p Point) AngleFrom(o Point) float64 { return math.Atan2(p.Y-o.Y, p.X-o.X) }

// Midpoint returns the midpoint of p and o.
func (p Point) Midpoint(o Point) Point {
	return Point{X: (p.X + o.X) / 2, Y: (p.Y + o.Y) / 2}
}

// Array returns p as a [2]float64, the representation polygon.ArcToPolygon
// expects.
func (p Point) Array() [2]float64 { return [2]float64{p.X, p.Y} }
