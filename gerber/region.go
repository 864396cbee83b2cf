package gerber

import (
	"github.com/gmlewis/go-gerber-image/polygon"
)

// SegmentKind distinguishes the three segment shapes a region contour can
// be built from: a straight line, an arc, or a degenerate (zero-length,
// full-circle) arc.
type SegmentKind int

const (
	// SegLine is a straight line segment.
	SegLine SegmentKind = iota
	// SegArc is a curved (interpolated) segment.
	SegArc
	// SegCircle is a degenerate full-circle segment.
	SegCircle
)

// Segment is one edge of a region Contour.
type Segment struct {
	Kind       SegmentKind
	Start, End Point
	Center     Point // Arc/Circle only
	CCW        bool  // Arc only
	Radius     float64
}

// Contour is an ordered sequence of segments. It is auto-closed if its
// last endpoint differs from its first (spec.md §3).
type Contour struct {
	Segments []Segment
}

func (c *Contour) append(s Segment) { c.Segments = append(c.Segments, s) }

// closed reports whether the contour's last endpoint matches its first.
func (c *Contour) closed(eps float64) bool {
	if len(c.Segments) == 0 {
		return true
	}
	first := c.Segments[0].Start
	last := c.Segments[len(c.Segments)-1].End
	return first.Distance(last) <= eps
}

// Polygon renders this contour into a flat packed polygon, auto-closing
// it if needed.
func (c *Contour) Polygon() polygon.Polygon {
	var out polygon.Polygon
	appendPoint := func(p Point) {
		n := len(out)
		if n >= 2 && out[n-2] == p.X && out[n-1] == p.Y {
			return
		}
		out = append(out, p.X, p.Y)
	}

	for _, seg := range c.Segments {
		switch seg.Kind {
		case SegLine:
			appendPoint(seg.Start)
			appendPoint(seg.End)
		case SegArc:
			start, end := seg.Start, seg.End
			if !seg.CCW {
				start, end = seg.End, seg.Start
			}
			arcPoly := polygon.ArcToPolygon(start.Array(), end.Array(), seg.Center.Array(), true, true)
			if !seg.CCW {
				arcPoly = arcPoly.Reversed()
			}
			n := arcPoly.Len()
			for i := 0; i < n; i++ {
				x, y := arcPoly.At(i)
				appendPoint(Point{X: x, Y: y})
			}
		case SegCircle:
			circlePoly := polygon.CircleToPolygon(seg.Radius, polygon.NumSteps, 0)
			circlePoly.Translate(seg.Center.X, seg.Center.Y)
			n := circlePoly.Len()
			for i := 0; i < n; i++ {
				x, y := circlePoly.At(i)
				appendPoint(Point{X: x, Y: y})
			}
		}
	}

	if !c.closed(1e-9) && len(c.Segments) > 0 {
		out = append(out, c.Segments[0].Start.X, c.Segments[0].Start.Y)
	}
	return out
}

// Region is an ordered list of contours composing a closed filled area
// bounded by segments defined between G36/G37.
type Region struct {
	lazyGeometry
	Contours []*Contour
	ObjState ObjectState
}

func (p *Region) State() ObjectState { return p.ObjState }

func (p *Region) Objects() ([]GraphicsObject, error) {
	return p.resolve(func() ([]GraphicsObject, error) {
		shape := make(polygon.Set, 0, len(p.Contours))
		for _, c := range p.Contours {
			poly := c.Polygon()
			if poly.Len() >= 3 {
				shape = append(shape, poly)
			}
		}
		return []GraphicsObject{{Polarity: p.ObjState.Polarity, Shape: shape}}, nil
	})
}

func (p *Region) Bounds() (polygon.Bounds, error) {
	if _, err := p.Objects(); err != nil {
		return polygon.Bounds{}, err
	}
	return p.lazyGeometry.bounds, nil
}

// Block is a group of primitives and resolved objects replicated by a
// step-and-repeat Repeat primitive, or instanced as a block aperture.
type Block struct {
	XRepeat, YRepeat int
	XDelta, YDelta   float64
	Primitives       []Primitive
	Objects          []GraphicsObject
}

// Repeat instantiates a Block at a grid of offsets: (i*XDelta, j*YDelta)
// for i in [0,XRepeat), j in [0,YRepeat), applied on top of Block.Objects'
// own absolute coordinates. The i=j=0 copy reproduces those objects
// verbatim.
type Repeat struct {
	lazyGeometry
	Block    *Block
	ObjState ObjectState
}

func (p *Repeat) State() ObjectState { return p.ObjState }

func (p *Repeat) Objects() ([]GraphicsObject, error) {
	return p.resolve(func() ([]GraphicsObject, error) {
		var out []GraphicsObject
		for i := 0; i < p.Block.XRepeat; i++ {
			for j := 0; j < p.Block.YRepeat; j++ {
				dx := float64(i) * p.Block.XDelta
				dy := float64(j) * p.Block.YDelta
				for _, o := range p.Block.Objects {
					shape := make(polygon.Set, len(o.Shape))
					for k, poly := range o.Shape {
						cp := poly.Clone() // copy, not alias, per spec.md §5.
						cp.Translate(dx, dy)
						shape[k] = cp
					}
					out = append(out, GraphicsObject{Polarity: o.Polarity, Shape: shape})
				}
			}
		}
		return out, nil
	})
}

func (p *Repeat) Bounds() (polygon.Bounds, error) {
	if _, err := p.Objects(); err != nil {
		return polygon.Bounds{}, err
	}
	return p.lazyGeometry.bounds, nil
}
