package gerber

import (
	"fmt"
	"math"

	"github.com/gmlewis/go-gerber-image/polygon"
)

// ApertureKind distinguishes the three aperture variants of spec.md §3.
type ApertureKind int

const (
	// StandardAperture is a built-in template (C, R, O, or P).
	StandardAperture ApertureKind = iota
	// MacroAperture is backed by a resolved Macro.
	MacroAperture
	// BlockAperture owns a list of already-resolved graphics objects.
	BlockAperture
)

// StandardTemplate names a built-in aperture shape.
type StandardTemplate byte

const (
	TemplateCircle   StandardTemplate = 'C'
	TemplateRect     StandardTemplate = 'R'
	TemplateObround  StandardTemplate = 'O'
	TemplatePolygon  StandardTemplate = 'P'
)

// Aperture is the polymorphic aperture model of spec.md §3/§4.6: standard
// (C/R/O/P with modifiers), macro-backed (shares a read-only *Macro plus a
// modifier vector), or block (owns its already-resolved object list).
//
// Expressed as a single struct with a Kind tag, per spec.md §9's sum-type
// design note, rather than a Go interface hierarchy: objects and the
// stroke generators (generateLineDraw, generateArcDraw) switch on exactly
// these three cases and nothing else ever implements a fourth.
type Aperture struct {
	ID   int // apertureId, must be >= 10.
	Kind ApertureKind

	// Standard.
	Template  StandardTemplate
	Modifiers []float64

	// Macro.
	Macro        *Macro
	MacroModVals []float64

	// Block.
	BlockPrimitives []Primitive
	BlockObjects    []GraphicsObject
}

// Validate checks the invariants spec.md §3 lists for standard apertures:
// id >= 10, radii/hole dimensions bounded by outer dimensions, polygon
// vertex count in [3,12] and integer.
func (a *Aperture) Validate() error {
	if a.ID < 10 {
		return &ParseError{Err: fmt.Errorf("aperture id %d < 10", a.ID)}
	}
	if a.Kind != StandardAperture {
		return nil
	}
	switch a.Template {
	case TemplateCircle:
		if len(a.Modifiers) < 1 {
			return &ParseError{Err: fmt.Errorf("circle aperture requires a diameter")}
		}
		if len(a.Modifiers) >= 2 && a.Modifiers[1] >= a.Modifiers[0] {
			return &ParseError{Err: fmt.Errorf("circle hole diameter %.6g >= outer diameter %.6g", a.Modifiers[1], a.Modifiers[0])}
		}
	case TemplateRect, TemplateObround:
		if len(a.Modifiers) < 2 {
			return &ParseError{Err: fmt.Errorf("rect/obround aperture requires width and height")}
		}
		// spec.md §9 open question: the source indexes modifier[4] for
		// the hole-height check when only modifiers[0..3] are ever
		// populated (width, height, holeW, holeH). Preserved verbatim:
		// an out-of-range read is treated as "no extra hole constraint"
		// rather than rejecting the aperture.
		if len(a.Modifiers) > 4 && a.Modifiers[4] >= a.Modifiers[1] {
			return &ParseError{Err: fmt.Errorf("hole height >= outer height")}
		}
	case TemplatePolygon:
		if len(a.Modifiers) < 2 {
			return &ParseError{Err: fmt.Errorf("polygon aperture requires diameter and vertex count")}
		}
		n := a.Modifiers[1]
		if n != math.Trunc(n) || n < 3 || n > 12 {
			return &ParseError{Err: fmt.Errorf("polygon aperture vertex count %v out of [3,12]", n)}
		}
	}
	return nil
}

// objects returns the flashed geometry of this aperture under the given
// polarity. Block apertures return their cached object list (polarities
// inverted if polarity == Light); standard/macro apertures tessellate
// their shape (optionally subtracting a hole).
func (a *Aperture) objects(polarity Polarity) ([]GraphicsObject, error) {
	switch a.Kind {
	case BlockAperture:
		out := make([]GraphicsObject, len(a.BlockObjects))
		for i, o := range a.BlockObjects {
			pol := o.Polarity
			if polarity == Light {
				pol = pol.Opposite()
			}
			out[i] = GraphicsObject{Polarity: pol, Shape: o.Shape}
		}
		return out, nil
	case MacroAperture:
		shape, err := a.Macro.Expand(a.MacroModVals)
		if err != nil {
			return nil, err
		}
		return []GraphicsObject{{Polarity: polarity, Shape: shape}}, nil
	default:
		shape, err := a.standardShape()
		if err != nil {
			return nil, err
		}
		return []GraphicsObject{{Polarity: polarity, Shape: shape}}, nil
	}
}

// standardShape tessellates a standard (C/R/O/P) aperture, subtracting a
// round or rectangular hole when modifiers describe one.
func (a *Aperture) standardShape() (polygon.Set, error) {
	var body polygon.Polygon
	switch a.Template {
	case TemplateCircle:
		body = polygon.CircleToPolygon(a.Modifiers[0]/2, polygon.NumSteps, 0)
	case TemplateRect:
		body = polygon.RectangleToPolygon(a.Modifiers[0], a.Modifiers[1])
	case TemplateObround:
		body = polygon.ObroundToPolygon(a.Modifiers[0], a.Modifiers[1])
	case TemplatePolygon:
		n := int(a.Modifiers[1])
		rot := 0.0
		if len(a.Modifiers) > 2 {
			rot = a.Modifiers[2] * degToRad
		}
		body = polygon.RegularPolygon(n, a.Modifiers[0], rot)
	default:
		return nil, &UnsupportedError{Reason: fmt.Sprintf("unknown standard template %q", a.Template)}
	}

	hole := a.holeDiameter()
	if hole > polygon.Epsilon {
		outer := polygon.Set{body}
		inner := polygon.Set{polygon.CircleToPolygon(hole/2, polygon.NumSteps, 0)}
		result, _ := polygon.Subtract(outer, inner)
		return result, nil
	}
	return polygon.Set{body}, nil
}

// holeDiameter returns the round-hole diameter modifier for this
// aperture's template, if any.
func (a *Aperture) holeDiameter() float64 {
	switch a.Template {
	case TemplateCircle:
		if len(a.Modifiers) >= 2 {
			return a.Modifiers[1]
		}
	case TemplateRect, TemplateObround:
		if len(a.Modifiers) >= 3 {
			return a.Modifiers[2]
		}
	case TemplatePolygon:
		if len(a.Modifiers) >= 4 {
			return a.Modifiers[3]
		}
	}
	return 0
}

// radius returns the aperture's effective stroke radius for line/arc
// draws: half the circle diameter, or 0 for non-circular apertures.
func (a *Aperture) radius() float64 {
	if a.Kind == StandardAperture && a.Template == TemplateCircle && len(a.Modifiers) > 0 {
		return a.Modifiers[0] / 2
	}
	return 0
}

// generateLineDraw strokes this aperture from start to end. See spec.md
// §4.6 for the fallback ladder.
func (a *Aperture) generateLineDraw(start, end Point, state ObjectState) (polygon.Polygon, bool, error) {
	if start.Distance(end) < polygon.Epsilon {
		objs, err := a.objects(state.Polarity)
		if err != nil {
			return nil, false, err
		}
		if len(objs) == 0 || len(objs[0].Shape) == 0 {
			return polygon.Polygon{start.X, start.Y}, false, nil
		}
		mid := start.Midpoint(end)
		shape := objs[0].Shape[0].Clone()
		shape.Translate(mid.X, mid.Y)
		return shape, true, nil
	}

	switch {
	case a.Kind == StandardAperture && a.Template == TemplateCircle:
		r := a.radius()
		if r < polygon.Epsilon {
			return polygon.Polygon{start.X, start.Y, end.X, end.Y}, false, nil
		}
		return stadium(start, end, r), true, nil

	case a.Kind == StandardAperture && a.Template == TemplateRect && state.Rotation == 0 && state.Mirroring == polygon.AxisNone:
		return rectStroke(start, end, a.Modifiers[0], a.Modifiers[1]), true, nil

	default:
		return nil, false, &UnsupportedError{Reason: "line draw with this aperture template/transform is unsupported"}
	}
}

// generateArcDraw strokes this aperture along an arc from start to end
// around center. See spec.md §4.6.
func (a *Aperture) generateArcDraw(start, end, center Point, state ObjectState) (polygon.Polygon, bool, error) {
	if start.Distance(end) < polygon.Epsilon {
		objs, err := a.objects(state.Polarity)
		if err != nil {
			return nil, false, err
		}
		if len(objs) == 0 || len(objs[0].Shape) == 0 {
			return polygon.Polygon{start.X, start.Y}, false, nil
		}
		shape := objs[0].Shape[0].Clone()
		shape.Translate(start.X, start.Y)
		return shape, true, nil
	}

	switch {
	case a.Kind == StandardAperture && (a.Template == TemplateCircle || a.Template == TemplateObround):
		r := a.radius()
		if a.Template == TemplateObround {
			r = math.Min(a.Modifiers[0], a.Modifiers[1]) / 2
		}
		R := start.Distance(center)
		return fatArc(start, end, center, R, r), true, nil

	case a.Kind == StandardAperture && a.Template == TemplateRect && state.Rotation == 0 && state.Mirroring == polygon.AxisNone:
		return fatArcRect(start, end, center, a.Modifiers[0], a.Modifiers[1]), true, nil

	default:
		return nil, false, &UnsupportedError{Reason: "arc draw with this aperture template/transform is unsupported"}
	}
}

// generateCircleDraw handles a zero-length circular draw in multi-quadrant
// mode: an annulus of outer radius and this aperture's inner radius.
func (a *Aperture) generateCircleDraw(center Point, radius float64, state ObjectState) (polygon.Polygon, error) {
	outer := polygon.CircleToPolygon(radius, polygon.NumSteps, 0)
	r := a.radius()
	if r < polygon.Epsilon {
		outer.Translate(center.X, center.Y)
		return outer, nil
	}
	outerSet := polygon.Set{polygon.CircleToPolygon(radius+r, polygon.NumSteps, 0)}
	innerSet := polygon.Set{polygon.CircleToPolygon(math.Max(radius-r, 0), polygon.NumSteps, 0)}
	result, _ := polygon.Subtract(outerSet, innerSet)
	if len(result) == 0 {
		return polygon.Polygon{}, nil
	}
	result[0].Translate(center.X, center.Y)
	return result[0], nil
}

// stadium builds a two-half-circle-capped rectangle (a "stroked line")
// of radius r between start and end.
func stadium(start, end Point, r float64) polygon.Polygon {
	dx, dy := end.X-start.X, end.Y-start.Y
	length := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	poly := polygon.ObroundToPolygon(length+2*r, 2*r)
	poly.Rotate(angle)
	mid := start.Midpoint(end)
	poly.Translate(mid.X, mid.Y)
	return poly
}

// rectStroke analytically constructs a rectangle-aperture stroke: the
// rectangle swept along a horizontal or vertical line short-circuits to a
// grown rectangle centered on the midpoint; any other angle picks one of
// four vertex orderings by quadrant.
func rectStroke(start, end Point, w, h float64) polygon.Polygon {
	dx, dy := end.X-start.X, end.Y-start.Y
	mid := start.Midpoint(end)

	if math.Abs(dy) < polygon.Epsilon {
		poly := polygon.RectangleToPolygon(math.Abs(dx)+w, h)
		poly.Translate(mid.X, mid.Y)
		return poly
	}
	if math.Abs(dx) < polygon.Epsilon {
		poly := polygon.RectangleToPolygon(w, math.Abs(dy)+h)
		poly.Translate(mid.X, mid.Y)
		return poly
	}

	hw, hh := w/2, h/2
	// Pick the vertex ordering whose "leading" corners face along the
	// draw direction, by quadrant of the draw angle.
	var corners [4]Point
	switch {
	case dx > 0 && dy > 0: // quadrant I
		corners = [4]Point{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	case dx < 0 && dy > 0: // quadrant II
		corners = [4]Point{{hw, -hh}, {hw, hh}, {-hw, hh}, {-hw, -hh}}
	case dx < 0 && dy < 0: // quadrant III
		corners = [4]Point{{hw, hh}, {-hw, hh}, {-hw, -hh}, {hw, -hh}}
	default: // quadrant IV
		corners = [4]Point{{-hw, hh}, {-hw, -hh}, {hw, -hh}, {hw, hh}}
	}

	out := polygon.Polygon{}
	out = append(out, start.X+corners[0].X, start.Y+corners[0].Y)
	out = append(out, start.X+corners[1].X, start.Y+corners[1].Y)
	out = append(out, end.X+corners[2].X, end.Y+corners[2].Y)
	out = append(out, end.X+corners[3].X, end.Y+corners[3].Y)
	out = append(out, out[0], out[1])
	return out
}

// fatArc constructs a circle/obround arc stroke as two concentric arcs of
// radii R+r and R-r, where R is the path radius and r is the aperture's
// half-width. The two arcs are joined at each end by a straight radial
// segment; the ends of the stroke are not rounded.
func fatArc(start, end, center Point, R, r float64) polygon.Polygon {
	outerR := R + r
	innerR := math.Max(R-r, 0)

	startAngle := start.AngleFrom(center)
	endAngle := end.AngleFrom(center)

	outerStart := Point{X: center.X + outerR*math.Cos(startAngle), Y: center.Y + outerR*math.Sin(startAngle)}
	outerEnd := Point{X: center.X + outerR*math.Cos(endAngle), Y: center.Y + outerR*math.Sin(endAngle)}
	innerStart := Point{X: center.X + innerR*math.Cos(startAngle), Y: center.Y + innerR*math.Sin(startAngle)}
	innerEnd := Point{X: center.X + innerR*math.Cos(endAngle), Y: center.Y + innerR*math.Sin(endAngle)}

	outerArc := polygon.ArcToPolygon(outerStart.Array(), outerEnd.Array(), center.Array(), true, true)
	innerArc := polygon.ArcToPolygon(innerStart.Array(), innerEnd.Array(), center.Array(), true, true)
	innerArc = innerArc.Reversed()

	out := append(polygon.Polygon{}, outerArc...)
	out = append(out, innerArc...)
	out = append(out, outerArc[0], outerArc[1])
	return out
}

// fatArcRect is the rectangle-aperture analogue of fatArc: approximated
// here as the fat-arc-for-circle construction using the rectangle's
// average half-dimension as the effective stroke radius, since an
// unrotated rectangle swept along a curved path has no simple closed
// form; callers needing exactness should prefer a circular aperture.
func fatArcRect(start, end, center Point, w, h float64) polygon.Polygon {
	R := start.Distance(center)
	r := (w + h) / 4
	return fatArc(start, end, center, R, r)
}
