package gerber

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gmlewis/go-gerber-image/polygon"
)

// fsCommand is "FS" (coordinate format spec): zero-suppression, coordinate
// type, and per-axis digit counts. A repeated FS records a warning and
// overrides the earlier format.
type fsCommand struct{ raw string }

var fsPattern = regexp.MustCompile(`^FS([LTDN])([AI])X(\d)(\d)Y(\d)(\d)$`)

func (c *fsCommand) execute(s *GerberState, line int) error {
	m := fsPattern.FindStringSubmatch(c.raw)
	if m == nil {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("malformed FS command")}
	}
	if s.formatSet {
		s.warn(line, "FS repeated; overriding coordinate format")
	}

	var zs ZeroSuppression
	switch m[1] {
	case "L":
		zs = ZeroSuppressLeading
	case "T":
		zs = ZeroSuppressTrailing
	case "D":
		zs = ZeroSuppressDirect
	default:
		zs = ZeroSuppressNone
	}
	coordType := CoordAbsolute
	if m[2] == "I" {
		coordType = CoordIncremental
	}

	intX, _ := strconv.Atoi(m[3])
	decX, _ := strconv.Atoi(m[4])
	intY, _ := strconv.Atoi(m[5])
	decY, _ := strconv.Atoi(m[6])

	s.format = CoordinateFormat{
		IntDigitsX: intX, DecDigitsX: decX,
		IntDigitsY: intY, DecDigitsY: decY,
		ZeroSuppress: zs, CoordType: coordType, set: true,
	}
	s.formatSet = true
	s.coordType = coordType
	return nil
}

// moCommand is "MO" (unit mode): MM selects millimeters; IN, or any other
// token, selects inches. A repeated MO overrides the earlier units.
type moCommand struct{ raw string }

func (c *moCommand) execute(s *GerberState, line int) error {
	body := strings.TrimPrefix(c.raw, "MO")
	switch body {
	case "MM":
		s.units = Millimeters
	case "IN":
		s.units = Inches
	default:
		// Permissive: an unrecognized unit token resolves to inches.
		s.units = Inches
	}
	s.unitsSet = true
	return nil
}

// unitsCommand is the deprecated G70/G71 unit selection, equivalent to MO.
type unitsCommand struct{ units Units }

func (c *unitsCommand) execute(s *GerberState, line int) error {
	if s.unitsSet && s.units != c.units {
		s.warn(line, "deprecated G70/G71 changed units already set by MO")
	}
	s.units = c.units
	s.unitsSet = true
	return nil
}

// amCommand is an "AM<name>*<element>*..." macro aperture template
// definition.
type amCommand struct{ raw string }

func (c *amCommand) execute(s *GerberState, line int) error {
	macro, err := parseMacro(c.raw)
	if err != nil {
		return err
	}
	macro.LegacyThermalPie = s.opts.LegacyThermalPie
	if _, exists := s.macros[macro.Name]; exists {
		s.warn(line, fmt.Sprintf("macro %q redefined", macro.Name))
	}
	s.macros[macro.Name] = macro
	return nil
}

// adCommand is an "AD" aperture definition: a standard template (C/R/O/P)
// or a macro aperture, each with its modifier list.
type adCommand struct{ raw string }

var adPattern = regexp.MustCompile(`^AD(D\d+)([A-Za-z_$][A-Za-z0-9_.$-]*)(?:,(.*))?$`)

func (c *adCommand) execute(s *GerberState, line int) error {
	m := adPattern.FindStringSubmatch(c.raw)
	if m == nil {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("malformed AD command")}
	}
	id, err := strconv.Atoi(strings.TrimPrefix(m[1], "D"))
	if err != nil {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("invalid aperture id: %w", err)}
	}
	template := m[2]
	modStr := m[3]

	a := &Aperture{ID: id}
	if len(template) == 1 && strings.ContainsRune("CROP", rune(template[0])) {
		a.Kind = StandardAperture
		a.Template = StandardTemplate(template[0])
		a.Modifiers = parseFloatList(modStr, "X")
	} else {
		macro, ok := s.macros[template]
		if !ok {
			return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("aperture references undefined macro %q", template)}
		}
		a.Kind = MacroAperture
		a.Macro = macro
		a.MacroModVals = parseFloatList(modStr, ",")
	}

	if err := a.Validate(); err != nil {
		return err
	}
	if _, exists := s.apertures[id]; exists {
		s.warn(line, fmt.Sprintf("aperture D%d redefined", id))
	}
	s.apertures[id] = a
	return nil
}

func parseFloatList(s, sep string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	fields := strings.Split(s, sep)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// abCommand opens or closes an aperture block (AB/ABDnn).
type abCommand struct{ raw string }

func (c *abCommand) execute(s *GerberState, line int) error {
	if c.raw == "AB" {
		top, ok := s.popConsumer().(*blockConsumer)
		if !ok {
			return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("AB close without a matching open")}
		}
		if len(s.blockApertureIDStack) == 0 {
			return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("AB close with no pending block aperture id")}
		}
		n := len(s.blockApertureIDStack)
		id := s.blockApertureIDStack[n-1]
		s.blockApertureIDStack = s.blockApertureIDStack[:n-1]
		s.apertures[id] = &Aperture{
			ID: id, Kind: BlockAperture,
			BlockPrimitives: top.block.Primitives,
			BlockObjects:    top.block.Objects,
		}
		return nil
	}

	id, err := strconv.Atoi(strings.TrimPrefix(c.raw, "ABD"))
	if err != nil {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("malformed AB open: %w", err)}
	}
	s.blockApertureIDStack = append(s.blockApertureIDStack, id)
	s.pushConsumer(newBlockConsumer())
	return nil
}

// srCommand opens or closes a step-and-repeat block (SR/SRXaYbIcJd).
type srCommand struct{ raw string }

var srPattern = regexp.MustCompile(`X(\d+)|Y(\d+)|I(-?[\d.]+)|J(-?[\d.]+)`)

func (c *srCommand) execute(s *GerberState, line int) error {
	if c.raw == "SR" {
		return c.closeSR(s, line)
	}
	// Block.Objects are already absolute-positioned (they were resolved
	// from the actual coordinates drawn inside the SR body), so the grid
	// origin is the zero point: only the deltas shift each copy, and the
	// i=j=0 copy reproduces the objects verbatim.
	params := &srParams{xRepeat: 1, yRepeat: 1}
	for _, m := range srPattern.FindAllStringSubmatch(c.raw, -1) {
		switch {
		case m[1] != "":
			params.xRepeat, _ = strconv.Atoi(m[1])
		case m[2] != "":
			params.yRepeat, _ = strconv.Atoi(m[2])
		case m[3] != "":
			params.xDelta, _ = strconv.ParseFloat(m[3], 64)
		case m[4] != "":
			params.yDelta, _ = strconv.ParseFloat(m[4], 64)
		}
	}
	s.srParamsStack = append(s.srParamsStack, params)
	s.pushConsumer(newBlockConsumer())
	return nil
}

func (c *srCommand) closeSR(s *GerberState, line int) error {
	top, ok := s.popConsumer().(*blockConsumer)
	if !ok {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("SR close without a matching open")}
	}
	if len(s.srParamsStack) == 0 {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("SR close with no pending step-and-repeat params")}
	}
	n := len(s.srParamsStack)
	params := s.srParamsStack[n-1]
	s.srParamsStack = s.srParamsStack[:n-1]

	repeat := &Repeat{
		Block: &Block{
			XRepeat: params.xRepeat, YRepeat: params.yRepeat,
			XDelta: params.xDelta, YDelta: params.yDelta,
			Primitives: top.block.Primitives, Objects: top.block.Objects,
		},
		ObjState: s.ObjectState(),
	}
	return s.recordPrimitive(repeat)
}

// recordPrimitive hands a completed primitive to whichever consumer is now
// on top of the stack, after a nested block/region/SR scope has closed.
func (s *GerberState) recordPrimitive(p Primitive) error {
	switch top := s.currentConsumer().(type) {
	case *blockConsumer:
		return top.recordObjects(p)
	case *baseConsumer:
		top.prims = append(top.prims, p)
	}
	return nil
}

// g36Command opens a region (fill boundary) scope.
type g36Command struct{}

func (c *g36Command) execute(s *GerberState, line int) error {
	s.pushConsumer(newRegionConsumer(s.ObjectState()))
	return nil
}

// g37Command closes a region scope, emitting the accumulated Region.
type g37Command struct{}

func (c *g37Command) execute(s *GerberState, line int) error {
	top, ok := s.currentConsumer().(*regionConsumer)
	if !ok {
		return &ParseError{Line: line, Command: "G37", Err: fmt.Errorf("G37 without a matching G36")}
	}
	if err := top.closeRegionContour(); err != nil {
		return err
	}
	s.popConsumer()
	return s.recordPrimitive(top.region)
}

// gModeCommand is G01/G02/G03, setting the interpolation mode used by the
// next D01.
type gModeCommand struct{ mode InterpolationMode }

func (c *gModeCommand) execute(s *GerberState, line int) error {
	s.interpMode = c.mode
	return nil
}

// quadrantCommand is G74/G75, setting the quadrant mode used by the arc
// solver.
type quadrantCommand struct{ mode QuadrantMode }

func (c *quadrantCommand) execute(s *GerberState, line int) error {
	s.quadrantMode = c.mode
	return nil
}

// coordModeCommand is G90/G91, selecting absolute or incremental
// coordinates.
type coordModeCommand struct{ mode CoordinateType }

func (c *coordModeCommand) execute(s *GerberState, line int) error {
	s.coordType = c.mode
	return nil
}

// commentCommand is G04: a human-readable comment with no effect.
type commentCommand struct{}

func (c *commentCommand) execute(s *GerberState, line int) error { return nil }

// lpCommand is "LP" (load polarity): dark or clear.
type lpCommand struct{ dark bool }

func (c *lpCommand) execute(s *GerberState, line int) error {
	if c.dark {
		s.polarity = Dark
	} else {
		s.polarity = Light
	}
	return nil
}

// lmCommand is "LM" (load mirroring): N, X, Y, or XY.
type lmCommand struct{ spec string }

func (c *lmCommand) execute(s *GerberState, line int) error {
	switch c.spec {
	case "N":
		s.mirroring = polygon.AxisNone
	case "X":
		s.mirroring = polygon.AxisX
	case "Y":
		s.mirroring = polygon.AxisY
	case "XY":
		s.mirroring = polygon.AxisXY
	default:
		return &ParseError{Line: line, Command: "LM" + c.spec, Err: fmt.Errorf("unknown mirroring %q", c.spec)}
	}
	return nil
}

// lrCommand is "LR" (load rotation), in degrees, counterclockwise.
type lrCommand struct{ raw string }

func (c *lrCommand) execute(s *GerberState, line int) error {
	v, err := strconv.ParseFloat(strings.TrimPrefix(c.raw, "LR"), 64)
	if err != nil {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("malformed LR: %w", err)}
	}
	s.rotation = v
	return nil
}

// lsCommand is "LS" (load scaling), a uniform size multiplier.
type lsCommand struct{ raw string }

func (c *lsCommand) execute(s *GerberState, line int) error {
	v, err := strconv.ParseFloat(strings.TrimPrefix(c.raw, "LS"), 64)
	if err != nil {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("malformed LS: %w", err)}
	}
	s.scale = v
	return nil
}

// attrCommand is a "TA"/"TF"/"TO"/"TD" attribute command. Attributes are
// bookkeeping only; they have no effect on geometry.
type attrCommand struct{ raw string }

func (c *attrCommand) execute(s *GerberState, line int) error {
	prefix := c.raw[:2]
	rest := c.raw[2:]
	fields := strings.Split(rest, ",")
	name := strings.TrimSpace(fields[0])

	if prefix == "TD" {
		if name == "" {
			for k := range s.attributes {
				delete(s.attributes, k)
			}
			return nil
		}
		delete(s.attributes, name)
		return nil
	}
	if name == "" {
		return &ParseError{Line: line, Command: c.raw, Err: fmt.Errorf("%s missing an attribute name", prefix)}
	}
	s.attributes[name] = fields[1:]
	return nil
}

// dSelectCommand is "Dnn" (n >= 10): select the current aperture.
type dSelectCommand struct{ id int }

func (c *dSelectCommand) execute(s *GerberState, line int) error {
	if _, ok := s.apertures[c.id]; !ok {
		return &ParseError{Line: line, Command: fmt.Sprintf("D%d", c.id), Err: fmt.Errorf("aperture D%d is not defined", c.id)}
	}
	s.currentAperture = c.id
	return nil
}

// m02Command is "M02" or "M00": end of program.
type m02Command struct{}

func (c *m02Command) execute(s *GerberState, line int) error {
	s.primitives = s.consumerStack[0].primitives()
	s.done = true
	return nil
}

// noopCommand recognizes and discards a non-spec command (spec.md §6):
// IP, LN, IJ, IO, IR, AS, KO, MI, OF, RO, SF, G54, and the deprecated
// draft-mode codes G10/G11/G12.
type noopCommand struct{}

func (c *noopCommand) execute(s *GerberState, line int) error { return nil }

// dCoordCommand is an "X...Y...I...J...D0n" graphics operation: D01 draws
// (line or arc, per the current interpolation mode), D02 moves without
// drawing, D03 flashes the current aperture. The raw axis fields are kept
// undecoded until execute, since decoding depends on the document's
// coordinate format (FS).
type dCoordCommand struct {
	xRaw, yRaw, iRaw, jRaw *string
	dcode                  int
}

var coordFieldPattern = regexp.MustCompile(`([XYIJ])(-?\d+(?:\.\d+)?)`)
var dcodePattern = regexp.MustCompile(`D0?([123])$`)

func parseCoordCommand(raw string) (command, error) {
	dm := dcodePattern.FindStringSubmatch(raw)
	if dm == nil {
		return nil, &ParseError{Err: fmt.Errorf("coordinate command %q missing a D01/D02/D03", raw)}
	}
	dcode, _ := strconv.Atoi(dm[1])

	c := &dCoordCommand{dcode: dcode}
	for _, m := range coordFieldPattern.FindAllStringSubmatch(raw, -1) {
		v := m[2]
		switch m[1] {
		case "X":
			c.xRaw = &v
		case "Y":
			c.yRaw = &v
		case "I":
			c.iRaw = &v
		case "J":
			c.jRaw = &v
		}
	}
	return c, nil
}

func (c *dCoordCommand) execute(s *GerberState, line int) error {
	format, err := s.Format()
	if err != nil {
		return err
	}

	decodeAxis := func(raw *string, decode func(string) (float64, error), current float64) (float64, error) {
		if raw == nil {
			return current, nil
		}
		v, err := decode(*raw)
		if err != nil {
			return 0, &ParseError{Line: line, Err: err}
		}
		if s.coordType == CoordIncremental {
			return current + v, nil
		}
		return v, nil
	}

	start := s.CurrentPoint()
	endX, err := decodeAxis(c.xRaw, format.DecodeX, s.X)
	if err != nil {
		return err
	}
	endY, err := decodeAxis(c.yRaw, format.DecodeY, s.Y)
	if err != nil {
		return err
	}
	end := Point{X: endX, Y: endY}

	var i, j *float64
	if c.iRaw != nil {
		v, err := format.DecodeX(*c.iRaw)
		if err != nil {
			return &ParseError{Line: line, Err: err}
		}
		i = &v
	}
	if c.jRaw != nil {
		v, err := format.DecodeY(*c.jRaw)
		if err != nil {
			return &ParseError{Line: line, Err: err}
		}
		j = &v
	}

	switch c.dcode {
	case 2:
		if err := s.currentConsumer().closeRegionContour(); err != nil {
			return err
		}
		s.X, s.Y = end.X, end.Y
		return nil

	case 3:
		aperture, err := s.Aperture()
		if err != nil {
			return err
		}
		flash := &Flash{Center: end, Aperture: aperture, ObjState: s.ObjectState()}
		if err := s.currentConsumer().flash(flash); err != nil {
			return err
		}
		s.X, s.Y = end.X, end.Y
		return nil

	case 1:
		_, inRegion := s.currentConsumer().(*regionConsumer)
		var aperture *Aperture
		if !inRegion {
			var err error
			aperture, err = s.Aperture()
			if err != nil {
				return err
			}
		}
		if s.interpMode == Linear {
			l := &Line{Start: start, End: end, Aperture: aperture, ObjState: s.ObjectState()}
			if err := s.currentConsumer().line(l); err != nil {
				return err
			}
			s.X, s.Y = end.X, end.Y
			return nil
		}

		result, err := solveArc(s, aperture, start, &end.X, &end.Y, i, j)
		if err != nil {
			return err
		}
		if result.circle != nil {
			if err := s.currentConsumer().circle(result.circle); err != nil {
				return err
			}
		} else if result.arc != nil {
			if err := s.currentConsumer().arc(result.arc); err != nil {
				return err
			}
		}
		if i != nil {
			s.I = *i
		}
		if j != nil {
			s.J = *j
		}
		s.X, s.Y = end.X, end.Y
		return nil
	}
	return &ParseError{Line: line, Err: fmt.Errorf("unknown D-code D%02d", c.dcode)}
}
