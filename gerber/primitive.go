package gerber

import (
	"sync"

	"github.com/gmlewis/go-gerber-image/polygon"
)

// Polarity selects whether an object adds material (Dark) or removes it
// (Light) from the composed image. Composition is order-dependent: see
// ComposeSolidImage.
type Polarity int

const (
	// Dark objects add material.
	Dark Polarity = iota
	// Light objects remove material.
	Light
)

// Opposite returns the other polarity.
func (p Polarity) Opposite() Polarity {
	if p == Dark {
		return Light
	}
	return Dark
}

func (p Polarity) String() string {
	if p == Dark {
		return "dark"
	}
	return "light"
}

// ObjectState is an immutable snapshot of the interpreter state that
// affects how a primitive resolves to geometry: polarity, mirroring,
// rotation (degrees), and scale. Primitives carry this by value.
type ObjectState struct {
	Polarity  Polarity
	Mirroring polygon.Axis
	Rotation  float64 // degrees
	Scale     float64
}

// DefaultObjectState is the interpreter's initial object state.
func DefaultObjectState() ObjectState {
	return ObjectState{Polarity: Dark, Mirroring: polygon.AxisNone, Rotation: 0, Scale: 1}
}

// GraphicsObject is a fully resolved (aperture-independent) geometric
// object ready for Boolean composition: a polygon set plus the polarity
// it should be composed with.
type GraphicsObject struct {
	Polarity Polarity
	Shape    polygon.Set
}

// Primitive is the Gerber graphics primitive sum type: Line, Arc, Circle,
// Flash, Region, or Repeat. Each carries its geometric parameters, the
// aperture reference at emission time, and an ObjectState snapshot.
//
// Geometry is lazily materialized the first time Objects is called and
// cached thereafter (spec.md §9 "lazy-cached geometry" redesign note),
// using sync.Once as the "set once" cell instead of the source's hidden
// mutable field.
type Primitive interface {
	// Objects resolves this primitive into zero or more GraphicsObjects.
	Objects() ([]GraphicsObject, error)
	// Bounds returns the axis-aligned bounds of the resolved geometry.
	Bounds() (polygon.Bounds, error)
	// State returns the ObjectState snapshot captured at emission time.
	State() ObjectState
}

type lazyGeometry struct {
	once    sync.Once
	objects []GraphicsObject
	bounds  polygon.Bounds
	err     error
}

func (l *lazyGeometry) resolve(compute func() ([]GraphicsObject, error)) ([]GraphicsObject, error) {
	l.once.Do(func() {
		l.objects, l.err = compute()
		if l.err == nil {
			b := polygon.EmptyBounds()
			for _, o := range l.objects {
				b = b.Union(polygon.BoundsOfSet(o.Shape))
			}
			l.bounds = b
		}
	})
	return l.objects, l.err
}

// Line is a stroke of the current aperture from Start to End.
type Line struct {
	lazyGeometry
	Start, End Point
	Aperture   *Aperture
	ObjState   ObjectState
}

func (p *Line) State() ObjectState { return p.ObjState }

func (p *Line) Objects() ([]GraphicsObject, error) {
	return p.resolve(func() ([]GraphicsObject, error) {
		poly, isSolid, err := p.Aperture.generateLineDraw(p.Start, p.End, p.ObjState)
		if err != nil {
			return nil, err
		}
		_ = isSolid
		return []GraphicsObject{{Polarity: p.ObjState.Polarity, Shape: polygon.Set{poly}}}, nil
	})
}

func (p *Line) Bounds() (polygon.Bounds, error) {
	if _, err := p.Objects(); err != nil {
		return polygon.Bounds{}, err
	}
	return p.lazyGeometry.bounds, nil
}

// Arc is an interpolated curved stroke of the current aperture from Start
// to End around Center, in direction CCW (true) or CW (false).
type Arc struct {
	lazyGeometry
	Start, End, Center Point
	Radius             float64
	CCW                bool
	Aperture           *Aperture
	ObjState           ObjectState
}

func (p *Arc) State() ObjectState { return p.ObjState }

func (p *Arc) Objects() ([]GraphicsObject, error) {
	return p.resolve(func() ([]GraphicsObject, error) {
		start, end := p.Start, p.End
		if !p.CCW {
			start, end = p.End, p.Start
		}
		poly, isSolid, err := p.Aperture.generateArcDraw(start, end, p.Center, p.ObjState)
		if err != nil {
			return nil, err
		}
		_ = isSolid
		return []GraphicsObject{{Polarity: p.ObjState.Polarity, Shape: polygon.Set{poly}}}, nil
	})
}

func (p *Arc) Bounds() (polygon.Bounds, error) {
	if _, err := p.Objects(); err != nil {
		return polygon.Bounds{}, err
	}
	return p.lazyGeometry.bounds, nil
}

// Circle is a full-circle zero-length draw emitted for a degenerate
// multi-quadrant arc: an annulus of outer Radius and the aperture's inner
// radius.
type Circle struct {
	lazyGeometry
	Center   Point
	Radius   float64
	Aperture *Aperture
	ObjState ObjectState
}

func (p *Circle) State() ObjectState { return p.ObjState }

func (p *Circle) Objects() ([]GraphicsObject, error) {
	return p.resolve(func() ([]GraphicsObject, error) {
		poly, err := p.Aperture.generateCircleDraw(p.Center, p.Radius, p.ObjState)
		if err != nil {
			return nil, err
		}
		return []GraphicsObject{{Polarity: p.ObjState.Polarity, Shape: polygon.Set{poly}}}, nil
	})
}

func (p *Circle) Bounds() (polygon.Bounds, error) {
	if _, err := p.Objects(); err != nil {
		return polygon.Bounds{}, err
	}
	return p.lazyGeometry.bounds, nil
}

// Flash places a copy of the current aperture at Center.
type Flash struct {
	lazyGeometry
	Center   Point
	Aperture *Aperture
	ObjState ObjectState
}

func (p *Flash) State() ObjectState { return p.ObjState }

func (p *Flash) Objects() ([]GraphicsObject, error) {
	return p.resolve(func() ([]GraphicsObject, error) {
		objs, err := p.Aperture.objects(p.ObjState.Polarity)
		if err != nil {
			return nil, err
		}
		out := make([]GraphicsObject, len(objs))
		for i, o := range objs {
			shape := make(polygon.Set, len(o.Shape))
			for j, poly := range o.Shape {
				cp := poly.Clone()
				cp.Rotate(p.ObjState.Rotation * degToRad)
				cp.Scale(p.ObjState.Scale, p.ObjState.Scale)
				cp.Mirror(p.ObjState.Mirroring)
				cp.Translate(p.Center.X, p.Center.Y)
				shape[j] = cp
			}
			out[i] = GraphicsObject{Polarity: o.Polarity, Shape: shape}
		}
		return out, nil
	})
}

func (p *Flash) Bounds() (polygon.Bounds, error) {
	if _, err := p.Objects(); err != nil {
		return polygon.Bounds{}, err
	}
	return p.lazyGeometry.bounds, nil
}

const degToRad = 3.141592653589793 / 180
