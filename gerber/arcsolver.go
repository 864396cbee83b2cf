package gerber

import (
	"math"

	"github.com/gmlewis/go-gerber-image/polygon"
)

// arcResult is the outcome of solving D01 in CW/CCW mode (spec.md §4.8
// "Arc solver"): either a Circle primitive (zero-length chord in
// multi-quadrant mode, when the radius is non-zero) or an Arc.
type arcResult struct {
	circle *Circle
	arc    *Arc
}

// solveArc implements spec.md §4.8's five-step arc solver.
func solveArc(state *GerberState, aperture *Aperture, start Point, x, y *float64, i, j *float64) (arcResult, error) {
	// Step 1: missing X/Y default to current point; missing I/J default
	// to the last I/J.
	end := start
	if x != nil {
		end.X = *x
	}
	if y != nil {
		end.Y = *y
	}
	ii, jj := state.I, state.J
	if i != nil {
		ii = *i
	}
	if j != nil {
		jj = *j
	}

	// Step 2.
	r := math.Hypot(ii, jj)

	objState := state.ObjectState()

	// Step 3: zero-length chord.
	if start.Distance(end) < polygon.Epsilon {
		if state.quadrantMode == SingleQuadrant {
			return arcResult{}, &GeometryError{Reason: "zero-length chord in single-quadrant mode"}
		}
		if r > polygon.Epsilon {
			center := Point{X: start.X + ii, Y: start.Y + jj}
			return arcResult{circle: &Circle{Center: center, Radius: r, Aperture: aperture, ObjState: objState}}, nil
		}
		state.warn(0, "empty D01: zero-length chord and zero radius")
		return arcResult{}, nil
	}

	// Step 4: compute the arc center.
	chord := end.Sub(start)
	chordLen2 := chord.X*chord.X + chord.Y*chord.Y
	rSquared := r * r

	d2 := rSquared - chordLen2/4
	if d2 < 0 {
		if d2 >= -1e-9 {
			state.warn(0, "arc radius clamped to 0 due to floating-point noise")
			d2 = 0
		} else {
			state.warn(0, "arc radius too small for chord: emitting best-effort arc")
			d2 = 0
		}
	}
	d := math.Sqrt(d2)

	mid := start.Midpoint(end)
	chordAngle := math.Atan2(chord.Y, chord.X)
	perp := chordAngle + math.Pi/2

	cand1 := Point{X: mid.X + d*math.Cos(perp), Y: mid.Y + d*math.Sin(perp)}
	cand2 := Point{X: mid.X - d*math.Cos(perp), Y: mid.Y - d*math.Sin(perp)}

	isCCW := state.interpMode == CounterClockwiseArc

	var center Point
	if state.quadrantMode == MultiQuadrant {
		ijCenter := Point{X: start.X + ii, Y: start.Y + jj}
		if ijCenter.Distance2(cand1) <= ijCenter.Distance2(cand2) {
			center = cand1
		} else {
			center = cand2
		}
	} else {
		// Single-quadrant: CW picks the right-of-chord candidate, CCW
		// picks the left-of-chord candidate, where "right/left" is
		// relative to the direction of travel start->end.
		rightOf := sideOfLine(start, end, cand1) < 0
		if isCCW {
			if rightOf {
				center = cand2
			} else {
				center = cand1
			}
		} else {
			if rightOf {
				center = cand1
			} else {
				center = cand2
			}
		}
	}

	radius := start.Distance(center)
	return arcResult{arc: &Arc{
		Start: start, End: end, Center: center, Radius: radius, CCW: isCCW,
		Aperture: aperture, ObjState: objState,
	}}, nil
}

// sideOfLine returns the signed area of (b-a) x (p-a): positive if p is
// to the left of a->b, negative if to the right.
func sideOfLine(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}
