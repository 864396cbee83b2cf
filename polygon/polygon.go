// Package polygon implements the flat packed-coordinate polygon primitives
// used to resolve Gerber and Excellon geometry: tessellation of circles,
// rectangles, obrounds and arcs, affine transforms over the packed buffer,
// and bounds queries.
package polygon

import (
	"math"

	"github.com/gmlewis/go3d/float64/vec2"
)

// NumSteps is the number of segments used to tessellate a full circle. It
// is a compile-time constant: CircleToPolygon takes its own step count,
// but ObroundToPolygon and ArcToPolygon always use NumSteps.
const NumSteps = 40

// Epsilon is the default tolerance used for "closed polygon" and
// "zero-length" comparisons throughout this package.
const Epsilon = 1e-12

// Polygon is a single closed or open contour stored as a flat, packed
// array of alternating x,y coordinates: [x0,y0,x1,y1,...]. This layout is
// kept flat (rather than a slice of Point structs) to preserve cache
// behavior across the tight tessellation and transform loops below.
type Polygon []float64

// Set is an ordered collection of polygons, e.g. the resolved shape of one
// aperture flash, or the accumulated dark/light image of a whole file.
type Set []Polygon

// Len returns the number of vertices in p.
func (p Polygon) Len() int { return len(p) / 2 }

// At returns the i'th vertex of p.
func (p Polygon) At(i int) (x, y float64) { return p[2*i], p[2*i+1] }

// Closed reports whether p's last vertex equals its first, within eps.
func (p Polygon) Closed(eps float64) bool {
	n := p.Len()
	if n < 2 {
		return false
	}
	x0, y0 := p.At(0)
	x1, y1 := p.At(n - 1)
	return math.Abs(x1-x0) <= eps && math.Abs(y1-y0) <= eps
}

// SignedArea returns twice the signed area of p via the shoelace formula.
// Positive indicates counter-clockwise winding.
func (p Polygon) SignedArea() float64 {
	n := p.Len()
	var sum float64
	for i := 0; i < n; i++ {
		x0, y0 := p.At(i)
		x1, y1 := p.At((i + 1) % n)
		sum += x0*y1 - x1*y0
	}
	return sum
}

// IsCCW reports whether p winds counter-clockwise.
func (p Polygon) IsCCW() bool { return p.SignedArea() >= 0 }

// Reversed returns a copy of p with vertex order reversed.
func (p Polygon) Reversed() Polygon {
	n := p.Len()
	out := make(Polygon, len(p))
	for i := 0; i < n; i++ {
		x, y := p.At(n - 1 - i)
		out[2*i], out[2*i+1] = x, y
	}
	return out
}

// Clone returns a deep copy of p.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty reports whether b has never been extended by a point.
func (b Bounds) Empty() bool { return b.MinX > b.MaxX || b.MinY > b.MaxY }

// Union returns the smallest Bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// EmptyBounds returns an empty Bounds suitable as a fold seed for Union.
func EmptyBounds() Bounds {
	return Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

// BoundsOf computes the bounds of a single polygon by linear scan.
func BoundsOf(p Polygon) Bounds {
	b := EmptyBounds()
	n := p.Len()
	for i := 0; i < n; i++ {
		x, y := p.At(i)
		if x < b.MinX {
			b.MinX = x
		}
		if y < b.MinY {
			b.MinY = y
		}
		if x > b.MaxX {
			b.MaxX = x
		}
		if y > b.MaxY {
			b.MaxY = y
		}
	}
	return b
}

// BoundsOfSet computes the union of the bounds of every polygon in s.
func BoundsOfSet(s Set) Bounds {
	b := EmptyBounds()
	for _, p := range s {
		b = b.Union(BoundsOf(p))
	}
	return b
}

// Translate adds (dx,dy) to every vertex of p, in place.
func (p Polygon) Translate(dx, dy float64) {
	for i := 0; i < len(p); i += 2 {
		p[i] += dx
		p[i+1] += dy
	}
}

// Scale multiplies every vertex of p by (sx,sy), in place.
func (p Polygon) Scale(sx, sy float64) {
	for i := 0; i < len(p); i += 2 {
		p[i] *= sx
		p[i+1] *= sy
	}
}

// Rotate applies a rotation by theta radians about the origin to every
// vertex of p, in place.
func (p Polygon) Rotate(theta float64) {
	sinT, cosT := math.Sincos(theta)
	for i := 0; i < len(p); i += 2 {
		v := vec2.T{p[i], p[i+1]}
		p[i] = v[0]*cosT - v[1]*sinT
		p[i+1] = v[0]*sinT + v[1]*cosT
	}
}

// Axis selects which axis (if any) a mirror operation reflects across.
type Axis int

const (
	// AxisNone performs no mirroring.
	AxisNone Axis = iota
	// AxisX mirrors across the X axis (negates Y).
	AxisX
	// AxisY mirrors across the Y axis (negates X).
	AxisY
	// AxisXY mirrors across both axes (negates X and Y).
	AxisXY
)

// Mirror reflects every vertex of p across axis, in place.
func (p Polygon) Mirror(axis Axis) {
	switch axis {
	case AxisX:
		for i := 1; i < len(p); i += 2 {
			p[i] = -p[i]
		}
	case AxisY:
		for i := 0; i < len(p); i += 2 {
			p[i] = -p[i]
		}
	case AxisXY:
		for i := 0; i < len(p); i++ {
			p[i] = -p[i]
		}
	}
}

// CircleToPolygon tessellates a circle of radius r into n+1 vertices
// (the first vertex is repeated as the last, closing the polygon),
// traversing counter-clockwise starting at angle -rotation.
func CircleToPolygon(r float64, n int, rotation float64) Polygon {
	if n <= 0 {
		n = NumSteps
	}
	out := make(Polygon, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		theta := -rotation + 2*math.Pi*float64(i)/float64(n)
		out = append(out, r*math.Cos(theta), r*math.Sin(theta))
	}
	return out
}

// RectangleToPolygon returns a 5-vertex (closed) axis-aligned rectangle of
// width w and height h centered on the origin, wound CCW.
func RectangleToPolygon(w, h float64) Polygon {
	hw, hh := w/2, h/2
	return Polygon{
		hw, -hh,
		hw, hh,
		-hw, hh,
		-hw, -hh,
		hw, -hh,
	}
}

// ObroundToPolygon returns an obround (stadium: two half-circles joined by
// straight segments) of width w and height h centered on the origin. When
// w == h this degenerates into a circle.
func ObroundToPolygon(w, h float64) Polygon {
	if math.Abs(w-h) < Epsilon {
		return CircleToPolygon(w/2, NumSteps, 0)
	}
	out := Polygon{}
	half := NumSteps / 2
	if w > h {
		r := h / 2
		cx := (w - h) / 2
		// Right cap: angles -90..90 around (cx, 0).
		for i := 0; i <= half; i++ {
			theta := -math.Pi/2 + math.Pi*float64(i)/float64(half)
			out = append(out, cx+r*math.Cos(theta), r*math.Sin(theta))
		}
		// Left cap: angles 90..270 around (-cx, 0).
		for i := 0; i <= half; i++ {
			theta := math.Pi/2 + math.Pi*float64(i)/float64(half)
			out = append(out, -cx+r*math.Cos(theta), r*math.Sin(theta))
		}
	} else {
		r := w / 2
		cy := (h - w) / 2
		// Top cap: angles 0..180 around (0, cy).
		for i := 0; i <= half; i++ {
			theta := math.Pi * float64(i) / float64(half)
			out = append(out, r*math.Cos(theta), cy+r*math.Sin(theta))
		}
		// Bottom cap: angles 180..360 around (0, -cy).
		for i := 0; i <= half; i++ {
			theta := math.Pi + math.Pi*float64(i)/float64(half)
			out = append(out, r*math.Cos(theta), -cy+r*math.Sin(theta))
		}
	}
	// Close the loop.
	x0, y0 := out[0], out[1]
	out = append(out, x0, y0)
	return out
}

// ArcToPolygon samples NumSteps steps from the angle of (start-center) to
// the angle of (end-center), wrapped into [startAngle, startAngle+2*pi).
// closeStart/closeEnd optionally pin the first/last sampled vertex exactly
// to start/end (avoiding trig round-off at the endpoints).
func ArcToPolygon(start, end, center [2]float64, closeStart, closeEnd bool) Polygon {
	startAngle := math.Atan2(start[1]-center[1], start[0]-center[0])
	endAngle := math.Atan2(end[1]-center[1], end[0]-center[0])
	r := math.Hypot(start[0]-center[0], start[1]-center[1])

	for endAngle < startAngle {
		endAngle += 2 * math.Pi
	}
	sweep := endAngle - startAngle
	if sweep < Epsilon {
		sweep = 2 * math.Pi
	}

	n := NumSteps
	out := make(Polygon, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		theta := startAngle + sweep*float64(i)/float64(n)
		x := center[0] + r*math.Cos(theta)
		y := center[1] + r*math.Sin(theta)
		if i == 0 && closeStart {
			x, y = start[0], start[1]
		}
		if i == n && closeEnd {
			x, y = end[0], end[1]
		}
		out = append(out, x, y)
	}
	return out
}

// RegularPolygon tessellates a regular polygon with n sides (n >= 3),
// diameter d (circumscribed), centered on the origin, wound CCW, rotated
// by rotation radians.
func RegularPolygon(n int, d, rotation float64) Polygon {
	r := d / 2
	out := make(Polygon, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		theta := rotation + 2*math.Pi*float64(i%n)/float64(n)
		out = append(out, r*math.Cos(theta), r*math.Sin(theta))
	}
	return out
}
