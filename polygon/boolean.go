package polygon

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
)

// toClip and fromClip convert our float64 flat-array polygons into polyclip-go's
// float64-based Polygon/Contour/Point types and back. polyclip-go is the
// "wrapped native library" spec.md §4.5/§6 describes: a scoped, single-use
// Boolean engine acquired, populated, executed, and released on every call
// below, never held open across calls.

func toClip(s Set) polyclip.Polygon {
	poly := make(polyclip.Polygon, 0, len(s))
	for _, p := range s {
		n := p.Len()
		contour := make(polyclip.Contour, 0, n)
		for i := 0; i < n; i++ {
			x, y := p.At(i)
			contour = append(contour, polyclip.Point{X: x, Y: y})
		}
		poly = append(poly, contour)
	}
	return poly
}

func fromClip(poly polyclip.Polygon) Set {
	s := make(Set, 0, len(poly))
	for _, contour := range poly {
		p := make(Polygon, 0, 2*len(contour))
		for _, pt := range contour {
			p = append(p, pt.X, pt.Y)
		}
		s = append(s, p)
	}
	return s
}

// Union returns a union over a and b, plus the bounds of the result.
func Union(a, b Set) (Set, Bounds) {
	result := fromClip(toClip(a).Construct(polyclip.UNION, toClip(b)))
	return result, BoundsOfSet(result)
}

// Subtract returns a minus b, plus the bounds of the result.
func Subtract(a, b Set) (Set, Bounds) {
	result := fromClip(toClip(a).Construct(polyclip.SUBTRACTION, toClip(b)))
	return result, BoundsOfSet(result)
}

// SimplifyPolygon drops consecutive duplicate vertices within eps and
// drops collinear midpoints (three consecutive vertices where the middle
// one lies on the segment joining its neighbors within eps).
func SimplifyPolygon(p Polygon, eps float64) Polygon {
	n := p.Len()
	if n < 3 {
		return p.Clone()
	}

	// Drop consecutive duplicates first.
	dedup := make(Polygon, 0, len(p))
	for i := 0; i < n; i++ {
		x, y := p.At(i)
		if len(dedup) >= 2 {
			lx, ly := dedup[len(dedup)-2], dedup[len(dedup)-1]
			if math.Abs(x-lx) <= eps && math.Abs(y-ly) <= eps {
				continue
			}
		}
		dedup = append(dedup, x, y)
	}

	m := dedup.Len()
	if m < 3 {
		return dedup
	}

	out := make(Polygon, 0, len(dedup))
	for i := 0; i < m; i++ {
		px, py := dedup.At((i - 1 + m) % m)
		cx, cy := dedup.At(i)
		nx, ny := dedup.At((i + 1) % m)
		if collinear(px, py, cx, cy, nx, ny, eps) {
			continue
		}
		out = append(out, cx, cy)
	}
	if out.Len() < 3 {
		return dedup
	}
	return out
}

func collinear(ax, ay, bx, by, cx, cy, eps float64) bool {
	// Cross product of (b-a) and (c-a); near zero means collinear, and
	// b must lie between a and c (not outside the segment).
	cross := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
	if math.Abs(cross) > eps {
		return false
	}
	dot := (bx-ax)*(cx-ax) + (by-ay)*(cy-ay)
	return dot >= 0 && dot <= (cx-ax)*(cx-ax)+(cy-ay)*(cy-ay)
}

// ConnectWires concatenates open polylines in s whose endpoints match
// within tolerance, reversing a polyline when needed to make the join.
// Polylines that cannot be joined to any other remain as-is.
func ConnectWires(s Set, tolerance float64) Set {
	remaining := make([]Polygon, len(s))
	copy(remaining, s)

	var out Set
	for len(remaining) > 0 {
		cur := remaining[0]
		remaining = remaining[1:]

		for {
			joined := false
			for i, p := range remaining {
				if merged, ok := tryJoin(cur, p, tolerance); ok {
					cur = merged
					remaining = append(remaining[:i], remaining[i+1:]...)
					joined = true
					break
				}
			}
			if !joined {
				break
			}
		}
		out = append(out, cur)
	}
	return out
}

func tryJoin(a, b Polygon, tol float64) (Polygon, bool) {
	an := a.Len()
	bn := b.Len()
	if an == 0 || bn == 0 {
		return nil, false
	}
	ax0, ay0 := a.At(0)
	ax1, ay1 := a.At(an - 1)
	bx0, by0 := b.At(0)
	bx1, by1 := b.At(bn - 1)

	near := func(x0, y0, x1, y1 float64) bool {
		return math.Hypot(x0-x1, y0-y1) <= tol
	}

	switch {
	case near(ax1, ay1, bx0, by0):
		return append(a.Clone(), b[2:]...), true
	case near(ax1, ay1, bx1, by1):
		return append(a.Clone(), b.Reversed()[2:]...), true
	case near(ax0, ay0, bx1, by1):
		return append(b.Clone(), a[2:]...), true
	case near(ax0, ay0, bx0, by0):
		return append(b.Reversed(), a[2:]...), true
	default:
		return nil, false
	}
}
