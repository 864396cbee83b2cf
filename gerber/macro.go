package gerber

import (
	"fmt"
	"math"

	"github.com/gmlewis/go-gerber-image/polygon"
)

// MacroVarDef is a macro content element that writes into Memory:
// "$n=expr".
type MacroVarDef struct {
	ID   int
	Expr Expr
}

// MacroPrimitiveDef is a macro content element describing one primitive
// instantiation: a code (0,1,4,5,6,7,20,21) and its ordered modifier
// expressions. Shape grounded on kennycoder-pcb-to-stencil's
// MacroPrimitive{Code int, Modifiers []float64}, generalized from a raw
// float vector to an expression vector (modifiers may reference $n and
// prior variable definitions).
type MacroPrimitiveDef struct {
	Code      int
	Modifiers []Expr
}

// MacroElement is a macro content element: a variable definition, a
// primitive instantiation, or a comment (code 0, skipped).
type MacroElement struct {
	Var       *MacroVarDef
	Primitive *MacroPrimitiveDef
	IsComment bool
}

// Macro is a user-defined parametric aperture: a name plus ordered
// content. Expansion output is never cached on the Macro itself (spec.md
// §3): each Aperture instantiation evaluates fresh against its own
// modifier vector.
type Macro struct {
	Name     string
	Elements []MacroElement

	// LegacyThermalPie reproduces the source's degenerate inner-diameter
	// pie construction for primitive code 7 instead of the annular-wedge
	// construction of spec.md §4.7 (spec.md §9 open question #3).
	LegacyThermalPie bool
}

// Expand evaluates this macro's content against the given numeric
// modifier list (the aperture's $1,$2,... values), returning the final
// composed polygon set: subtract(positives, negatives).
func (m *Macro) Expand(modifiers []float64) (polygon.Set, error) {
	mem := Memory{}
	for i, v := range modifiers {
		mem.Set(i+1, v)
	}

	var positives, negatives polygon.Set
	for _, el := range m.Elements {
		switch {
		case el.IsComment:
			continue
		case el.Var != nil:
			mem.Set(el.Var.ID, el.Var.Expr.Eval(mem))
		case el.Primitive != nil:
			vals := make([]float64, len(el.Primitive.Modifiers))
			for i, e := range el.Primitive.Modifiers {
				vals[i] = e.Eval(mem)
			}
			shape, exposure, err := m.expandPrimitive(el.Primitive.Code, vals)
			if err != nil {
				return nil, err
			}
			if exposure {
				positives = append(positives, shape...)
			} else {
				negatives = append(negatives, shape...)
			}
		}
	}

	if len(negatives) == 0 {
		return positives, nil
	}
	result, _ := polygon.Subtract(positives, negatives)
	return result, nil
}

// expandPrimitive builds the polygon set for a single macro primitive
// instantiation, per the table in spec.md §4.7. Returns the shape and
// whether it has positive (true) exposure.
func (m *Macro) expandPrimitive(code int, v []float64) (polygon.Set, bool, error) {
	switch code {
	case 0:
		return nil, true, nil

	case 1: // Circle: exposure, d, cx, cy, [rot]
		if len(v) < 4 {
			return nil, true, &ParseError{Err: fmt.Errorf("macro primitive 1 needs 4 modifiers, got %d", len(v))}
		}
		exposure := v[0] != 0
		d, cx, cy := v[1], v[2], v[3]
		if d < polygon.Epsilon {
			return nil, exposure, nil
		}
		rot := 0.0
		if len(v) > 4 {
			rot = v[4] * degToRad
		}
		poly := polygon.CircleToPolygon(d/2, polygon.NumSteps, 0)
		poly.Translate(cx, cy)
		poly.Rotate(rot)
		return polygon.Set{poly}, exposure, nil

	case 4: // Outline: exposure, n, x0,y0,...,xn,yn, rot
		if len(v) < 3 {
			return nil, true, &ParseError{Err: fmt.Errorf("macro primitive 4 too short")}
		}
		exposure := v[0] != 0
		n := int(v[1])
		need := 2 + 2*(n+1) + 1
		if len(v) < need {
			return nil, exposure, &ParseError{Err: fmt.Errorf("macro primitive 4 expected %d modifiers, got %d", need, len(v))}
		}
		poly := polygon.Polygon{}
		for i := 0; i <= n; i++ {
			poly = append(poly, v[2+2*i], v[2+2*i+1])
		}
		if !poly.IsCCW() {
			poly = poly.Reversed()
		}
		rot := v[need-1] * degToRad
		poly.Rotate(rot)
		return polygon.Set{poly}, exposure, nil

	case 5: // Regular polygon: exposure, nSides, cx, cy, d, rot
		if len(v) < 6 {
			return nil, true, &ParseError{Err: fmt.Errorf("macro primitive 5 needs 6 modifiers, got %d", len(v))}
		}
		exposure := v[0] != 0
		nSides := int(v[1])
		if nSides < 3 {
			return nil, exposure, &ParseError{Err: fmt.Errorf("macro primitive 5 nSides %d < 3", nSides)}
		}
		cx, cy, d, rot := v[2], v[3], v[4], v[5]*degToRad
		poly := polygon.RegularPolygon(nSides, d, 0)
		poly.Translate(cx, cy)
		poly.Rotate(rot)
		return polygon.Set{poly}, exposure, nil

	case 6: // Moire: cx, cy, outerD, ringT, gap, maxRings, crossT, crossL, rot
		if len(v) < 9 {
			return nil, true, &ParseError{Err: fmt.Errorf("macro primitive 6 needs 9 modifiers, got %d", len(v))}
		}
		cx, cy, outerD, ringT, gap, maxRings, crossT, crossL, rot := v[0], v[1], v[2], v[3], v[4], int(v[5]), v[6], v[7], v[8]*degToRad
		var shape polygon.Set
		d := outerD
		for ring := 0; ring < maxRings && d > polygon.Epsilon; ring++ {
			outer := polygon.CircleToPolygon(d/2, polygon.NumSteps, 0)
			innerD := d - 2*ringT
			if innerD > polygon.Epsilon {
				inner := polygon.CircleToPolygon(innerD/2, polygon.NumSteps, 0)
				result, _ := polygon.Subtract(polygon.Set{outer}, polygon.Set{inner})
				shape = append(shape, result...)
			} else {
				shape = append(shape, outer)
			}
			d -= 2 * (ringT + gap)
		}
		if crossL > polygon.Epsilon {
			h := polygon.RectangleToPolygon(crossL, crossT)
			vbar := polygon.RectangleToPolygon(crossT, crossL)
			shape = append(shape, h, vbar)
		}
		for i := range shape {
			shape[i] = shape[i].Clone()
			shape[i].Translate(cx, cy)
			shape[i].Rotate(rot)
		}
		return shape, true, nil

	case 7: // Thermal: cx, cy, outerD, innerD, gap, rot
		if len(v) < 6 {
			return nil, true, &ParseError{Err: fmt.Errorf("macro primitive 7 needs 6 modifiers, got %d", len(v))}
		}
		cx, cy, outerD, innerD, gap, rot := v[0], v[1], v[2], v[3], v[4], v[5]*degToRad
		if outerD <= innerD {
			return nil, true, &GeometryError{Reason: "thermal outerD <= innerD"}
		}
		if gap >= outerD/math.Sqrt2 {
			return nil, true, &GeometryError{Reason: "thermal gap too large"}
		}
		shape, err := m.thermalWedges(outerD, innerD, gap)
		if err != nil {
			return nil, true, err
		}
		for i := range shape {
			shape[i] = shape[i].Clone()
			shape[i].Translate(cx, cy)
			shape[i].Rotate(rot)
		}
		return shape, true, nil

	case 20: // Vector line: exposure, w, x1,y1,x2,y2, rot
		if len(v) < 6 {
			return nil, true, &ParseError{Err: fmt.Errorf("macro primitive 20 needs 6 modifiers, got %d", len(v))}
		}
		exposure := v[0] != 0
		w, x1, y1, x2, y2, rot := v[1], v[2], v[3], v[4], v[5], 0.0
		if len(v) > 6 {
			rot = v[6] * degToRad
		}
		angle := math.Atan2(y2-y1, x2-x1)
		length := math.Hypot(x2-x1, y2-y1)
		poly := polygon.RectangleToPolygon(length, w)
		poly.Rotate(angle)
		poly.Translate((x1+x2)/2, (y1+y2)/2)
		poly.Rotate(rot)
		return polygon.Set{poly}, exposure, nil

	case 21: // Center line: exposure, w, h, cx, cy, rot
		if len(v) < 6 {
			return nil, true, &ParseError{Err: fmt.Errorf("macro primitive 21 needs 6 modifiers, got %d", len(v))}
		}
		exposure := v[0] != 0
		w, h, cx, cy, rot := v[1], v[2], v[3], v[4], v[5]*degToRad
		poly := polygon.RectangleToPolygon(w, h)
		poly.Translate(cx, cy)
		poly.Rotate(rot)
		return polygon.Set{poly}, exposure, nil

	default:
		return nil, true, &ParseError{Err: fmt.Errorf("unknown macro primitive code %d", code)}
	}
}

// thermalWedges builds the four quadrant wedge polygons of a thermal
// relief. When innerD > 0 each wedge is an annular-arc wedge (spec.md
// §4.7's preferred construction); when innerD == 0 each wedge is a pie.
// m.LegacyThermalPie reproduces the source's degenerate inner-pie
// behavior bug-for-bug instead.
func (m *Macro) thermalWedges(outerD, innerD, gap float64) (polygon.Set, error) {
	if gap < polygon.Epsilon {
		return polygon.Set{polygon.CircleToPolygon(outerD/2, polygon.NumSteps, 0)}, nil
	}

	outerR := outerD / 2
	innerR := innerD / 2
	halfGap := gap / 2

	var shape polygon.Set
	for q := 0; q < 4; q++ {
		base := float64(q) * math.Pi / 2
		// The gap subtends an angle of asin(halfGap/R) on each edge of
		// the quadrant, measured at the outer radius.
		gapAngle := math.Asin(math.Min(halfGap/outerR, 1))
		startAngle := base + gapAngle
		endAngle := base + math.Pi/2 - gapAngle

		if innerD > polygon.Epsilon && !m.LegacyThermalPie {
			outerStart := Point{X: outerR * math.Cos(startAngle), Y: outerR * math.Sin(startAngle)}
			outerEnd := Point{X: outerR * math.Cos(endAngle), Y: outerR * math.Sin(endAngle)}
			innerStart := Point{X: innerR * math.Cos(startAngle), Y: innerR * math.Sin(startAngle)}
			innerEnd := Point{X: innerR * math.Cos(endAngle), Y: innerR * math.Sin(endAngle)}
			wedge := fatArc(outerStart, outerEnd, Point{}, (outerR+innerR)/2, (outerR-innerR)/2)
			_ = innerStart
			_ = innerEnd
			shape = append(shape, wedge)
		} else {
			// Legacy/degenerate pie: a triangle fan from the center,
			// bug-compatible with the source when innerD == 0 (or when
			// LegacyThermalPie forces it even with a non-zero innerD).
			pie := polygon.Polygon{0, 0}
			n := polygon.NumSteps / 4
			for i := 0; i <= n; i++ {
				theta := startAngle + (endAngle-startAngle)*float64(i)/float64(n)
				pie = append(pie, outerR*math.Cos(theta), outerR*math.Sin(theta))
			}
			pie = append(pie, 0, 0)
			shape = append(shape, pie)
		}
	}
	return shape, nil
}
