package gerber

import "fmt"

// GraphicsOperations is the pluggable sink for resolved graphics
// primitives, per spec.md §4.8 "Graphics consumers". The three
// implementations (base, region, block) share this method set; only the
// consumer currently on top of GerberState's consumer stack is invoked,
// through this interface, for each primitive.
type GraphicsOperations interface {
	// line records a completed line-interpolation draw.
	line(l *Line) error
	// arc records a completed arc-interpolation draw.
	arc(a *Arc) error
	// circle records a degenerate full-circle draw.
	circle(c *Circle) error
	// flash records an aperture flash. Returns an error for consumers
	// that cannot hold a flash (region contours).
	flash(f *Flash) error
	// closeRegionContour flushes the in-progress contour, if any. A
	// no-op for consumers that are not collecting a region.
	closeRegionContour() error
	// primitives returns every primitive recorded so far.
	primitives() []Primitive
}

// baseConsumer is the root-level consumer: it simply records every
// operation as a graphics primitive.
type baseConsumer struct {
	prims []Primitive
}

func newBaseConsumer() *baseConsumer { return &baseConsumer{} }

func (c *baseConsumer) line(l *Line) error     { c.prims = append(c.prims, l); return nil }
func (c *baseConsumer) arc(a *Arc) error       { c.prims = append(c.prims, a); return nil }
func (c *baseConsumer) circle(ci *Circle) error { c.prims = append(c.prims, ci); return nil }
func (c *baseConsumer) flash(f *Flash) error   { c.prims = append(c.prims, f); return nil }
func (c *baseConsumer) closeRegionContour() error { return nil }
func (c *baseConsumer) primitives() []Primitive { return c.prims }

// regionConsumer accumulates segments into an open contour between G36
// and G37. flash is an error inside a region; closeRegionContour flushes
// the accumulated segments into the contour list.
type regionConsumer struct {
	region  *Region
	current *Contour
}

func newRegionConsumer(state ObjectState) *regionConsumer {
	return &regionConsumer{region: &Region{ObjState: state}}
}

func (c *regionConsumer) ensureContour() *Contour {
	if c.current == nil {
		c.current = &Contour{}
	}
	return c.current
}

func (c *regionConsumer) line(l *Line) error {
	c.ensureContour().append(Segment{Kind: SegLine, Start: l.Start, End: l.End})
	return nil
}

func (c *regionConsumer) arc(a *Arc) error {
	c.ensureContour().append(Segment{Kind: SegArc, Start: a.Start, End: a.End, Center: a.Center, CCW: a.CCW, Radius: a.Radius})
	return nil
}

func (c *regionConsumer) circle(ci *Circle) error {
	c.ensureContour().append(Segment{Kind: SegCircle, Center: ci.Center, Radius: ci.Radius})
	return nil
}

func (c *regionConsumer) flash(*Flash) error {
	return &ParseError{Err: fmt.Errorf("flash (D03) is not allowed inside a region (G36/G37)")}
}

func (c *regionConsumer) closeRegionContour() error {
	if c.current != nil && len(c.current.Segments) > 0 {
		c.region.Contours = append(c.region.Contours, c.current)
	}
	c.current = nil
	return nil
}

func (c *regionConsumer) primitives() []Primitive {
	if c.region == nil {
		return nil
	}
	return []Primitive{c.region}
}

// blockConsumer records both a primitive list and a flat object list,
// used while an aperture block (AB) or step-and-repeat (SR) scope is
// open.
type blockConsumer struct {
	block *Block
}

func newBlockConsumer() *blockConsumer {
	return &blockConsumer{block: &Block{XRepeat: 1, YRepeat: 1}}
}

func (c *blockConsumer) recordObjects(p Primitive) error {
	objs, err := p.Objects()
	if err != nil {
		return err
	}
	c.block.Primitives = append(c.block.Primitives, p)
	c.block.Objects = append(c.block.Objects, objs...)
	return nil
}

func (c *blockConsumer) line(l *Line) error       { return c.recordObjects(l) }
func (c *blockConsumer) arc(a *Arc) error         { return c.recordObjects(a) }
func (c *blockConsumer) circle(ci *Circle) error  { return c.recordObjects(ci) }
func (c *blockConsumer) flash(f *Flash) error     { return c.recordObjects(f) }
func (c *blockConsumer) closeRegionContour() error { return nil }
func (c *blockConsumer) primitives() []Primitive  { return c.block.Primitives }
