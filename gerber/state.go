package gerber

import (
	"github.com/gmlewis/go-gerber-image/polygon"
)

// InterpolationMode selects how D01 interpolates between the current
// point and the commanded point.
type InterpolationMode int

const (
	// Linear interpolation emits a Line.
	Linear InterpolationMode = iota
	// ClockwiseArc interpolation emits an Arc with CCW=false.
	ClockwiseArc
	// CounterClockwiseArc interpolation emits an Arc with CCW=true.
	CounterClockwiseArc
)

// QuadrantMode selects how the arc solver interprets I/J.
type QuadrantMode int

const (
	// SingleQuadrant arcs are <=90 degrees with unsigned I/J.
	SingleQuadrant QuadrantMode = iota
	// MultiQuadrant arcs may span more than 90 degrees with signed I/J.
	MultiQuadrant
)

// Units selects the document's linear unit.
type Units int

const (
	// Millimeters.
	Millimeters Units = iota
	// Inches.
	Inches
)

// GerberState is the Gerber interpreter state: the single mutable
// document context a parse operates over (spec.md §3/§5 — one fresh
// GerberState per document, never shared, never a singleton).
type GerberState struct {
	// Required-before-use.
	format          CoordinateFormat
	formatSet       bool
	units           Units
	unitsSet        bool
	currentAperture int
	interpMode      InterpolationMode
	quadrantMode    QuadrantMode

	// Mutable through commands.
	X, Y      float64
	I, J      float64
	polarity  Polarity
	mirroring polygon.Axis
	rotation  float64
	scale     float64
	coordType CoordinateType

	// Tables, owned exclusively by the state.
	apertures map[int]*Aperture
	macros    map[string]*Macro

	// Attribute bookkeeping (TA/TF/TO/TD); no geometric effect.
	attributes map[string][]string

	// Stacks.
	consumerStack        []GraphicsOperations
	blockApertureIDStack []int
	srParamsStack        []*srParams

	warnings   []Warning
	done       bool
	primitives []Primitive

	opts Options
}

// srParams accumulates the XaYbIcJd parameters of an open step-and-repeat
// block before its Repeat primitive can be emitted.
type srParams struct {
	xRepeat, yRepeat int
	xDelta, yDelta   float64
}

// Options configures optional/non-spec-mandated behavior.
type Options struct {
	// LegacyThermalPie reproduces the source's degenerate macro
	// primitive-7 inner-pie construction (spec.md §9, open question 3).
	LegacyThermalPie bool
	// NumSteps is stored but not read by the parser: tessellation always
	// uses polygon.NumSteps.
	NumSteps int
}

// NewGerberState returns a fresh interpreter state with a base consumer
// on top of the consumer stack.
func NewGerberState(opts Options) *GerberState {
	s := &GerberState{
		scale:      1,
		polarity:   Dark,
		mirroring:  polygon.AxisNone,
		apertures:  map[int]*Aperture{},
		macros:     map[string]*Macro{},
		attributes: map[string][]string{},
		opts:       opts,
	}
	s.consumerStack = []GraphicsOperations{newBaseConsumer()}
	return s
}

func (s *GerberState) currentConsumer() GraphicsOperations {
	return s.consumerStack[len(s.consumerStack)-1]
}

func (s *GerberState) pushConsumer(c GraphicsOperations) { s.consumerStack = append(s.consumerStack, c) }

func (s *GerberState) popConsumer() GraphicsOperations {
	n := len(s.consumerStack)
	top := s.consumerStack[n-1]
	s.consumerStack = s.consumerStack[:n-1]
	return top
}

func (s *GerberState) warn(line int, reason string) {
	s.warnings = append(s.warnings, Warning{Line: line, Reason: reason})
}

// Format returns the document's coordinate format, or an error if FS has
// not yet been applied.
func (s *GerberState) Format() (CoordinateFormat, error) {
	if !s.formatSet {
		return CoordinateFormat{}, &StateNotSetError{Field: "coordinate format (FS)"}
	}
	return s.format, nil
}

// Units returns the document's units, or an error if MO has not yet been
// applied.
func (s *GerberState) Units() (Units, error) {
	if !s.unitsSet {
		return 0, &StateNotSetError{Field: "units (MO)"}
	}
	return s.units, nil
}

// Aperture returns the currently selected aperture, or an error if none
// has been selected.
func (s *GerberState) Aperture() (*Aperture, error) {
	if s.currentAperture == 0 {
		return nil, &StateNotSetError{Field: "current aperture (Dnn)"}
	}
	a, ok := s.apertures[s.currentAperture]
	if !ok {
		return nil, &StateNotSetError{Field: "current aperture (Dnn) refers to an undefined aperture"}
	}
	return a, nil
}

// CurrentPoint returns the state's current point.
func (s *GerberState) CurrentPoint() Point { return Point{X: s.X, Y: s.Y} }

// ObjectState snapshots the state's current polarity/mirroring/rotation/
// scale into an ObjectState value for a newly emitted primitive.
func (s *GerberState) ObjectState() ObjectState {
	return ObjectState{Polarity: s.polarity, Mirroring: s.mirroring, Rotation: s.rotation, Scale: s.scale}
}

// Warnings returns every warning accumulated so far.
func (s *GerberState) Warnings() []Warning { return s.warnings }

// Done reports whether M02/M00 has terminated the stream.
func (s *GerberState) Done() bool { return s.done }

// Primitives returns the resolved primitive list, valid once Done()
// returns true.
func (s *GerberState) Primitives() []Primitive { return s.primitives }
