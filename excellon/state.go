package excellon

import "fmt"

// CoordinateMode selects absolute or incremental coordinate records.
type CoordinateMode int

const (
	// Absolute coordinates are measured from the origin.
	Absolute CoordinateMode = iota
	// Incremental coordinates are measured from the current point.
	Incremental
)

// Tool is one entry of the T-code tool table: an id and its drill
// diameter (already converted to millimeters).
type Tool struct {
	ID       int
	Diameter float64
}

// Hole is one drilled hole: a resolved position (in millimeters) and the
// diameter of the tool that drilled it.
type Hole struct {
	X, Y     float64
	Diameter float64
	Tool     int
}

// Bounds is the axis-aligned extent of a hole set, grown by each hole's
// radius (spec.md §4.9: "bounds is computed from hole centers ± diameter").
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	empty                  bool
}

// EmptyBounds returns an empty Bounds value, ready to Grow.
func EmptyBounds() Bounds { return Bounds{empty: true} }

// Grow expands b to include a hole centered at (x,y) with the given
// radius.
func (b Bounds) Grow(x, y, radius float64) Bounds {
	minX, minY, maxX, maxY := x-radius, y-radius, x+radius, y+radius
	if b.empty {
		return Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	if minX < b.MinX {
		b.MinX = minX
	}
	if minY < b.MinY {
		b.MinY = minY
	}
	if maxX > b.MaxX {
		b.MaxX = maxX
	}
	if maxY > b.MaxY {
		b.MaxY = maxY
	}
	return b
}

// state is the Excellon interpreter state: one fresh state per document,
// mirroring gerber.GerberState's "required-before-use" + "mutable through
// commands" split.
type state struct {
	format    Format
	formatSet bool
	units     Units
	unitsSet  bool
	coordMode CoordinateMode
	drilling  bool // true between G05 and the next G00/route command

	x, y float64

	tools          map[int]*Tool
	currentTool    int
	currentToolSet bool

	inHeader bool
	done     bool

	holes  []Hole
	bounds Bounds

	warnings []string
}

func newState() *state {
	return &state{
		tools:    map[int]*Tool{},
		inHeader: true,
		bounds:   EmptyBounds(),
	}
}

func (s *state) warn(reason string) { s.warnings = append(s.warnings, reason) }

func (s *state) ensureFormat() Format {
	if s.formatSet {
		return s.format
	}
	if s.unitsSet {
		return defaultFormat(s.units)
	}
	return defaultFormat(Millimeters)
}

func (s *state) tool(id int) (*Tool, error) {
	t, ok := s.tools[id]
	if !ok {
		return nil, fmt.Errorf("excellon: tool T%02d is not defined", id)
	}
	return t, nil
}
