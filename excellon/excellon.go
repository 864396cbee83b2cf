package excellon

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Document is the result of parsing one Excellon drill file: every
// resolved hole in source order, plus the bounds they occupy and any
// non-fatal warnings.
type Document struct {
	Holes    []Hole
	Bounds   Bounds
	Warnings []string
}

// Parse reads a complete Excellon drill file from r and interprets it
// into a Document.
func Parse(r io.Reader) (*Document, error) {
	s := newState()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if s.done {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := dispatchLine(s, text, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("excellon: reading input: %w", err)
	}

	return &Document{Holes: s.holes, Bounds: s.bounds, Warnings: s.warnings}, nil
}

var (
	commentPattern    = regexp.MustCompile(`^;(.*)$`)
	toolDefPattern    = regexp.MustCompile(`^T(\d+)(?:,(\d+))?([A-Z].*)$`)
	toolChangePattern = regexp.MustCompile(`^T(\d+)$`)
	toolModPattern    = regexp.MustCompile(`([A-Z])(-?[\d.]+)`)
	metricInchPattern = regexp.MustCompile(`^(METRIC|INCH)(?:,(LZ|TZ))?$`)
	coordFieldPattern = regexp.MustCompile(`([XY])(-?\d+(?:\.\d+)?)`)
)

// dispatchLine interprets one trimmed, non-empty line (spec.md §4.9).
func dispatchLine(s *state, text string, line int) error {
	switch {
	case commentPattern.MatchString(text):
		m := commentPattern.FindStringSubmatch(text)
		if f, ok := parseFormatDirective(strings.TrimSpace(m[1])); ok {
			s.format = f
			s.formatSet = true
		}
		return nil

	case text == "%":
		s.inHeader = false
		return nil

	case text == "M48":
		s.inHeader = true
		return nil

	case text == "G90":
		s.coordMode = Absolute
		return nil
	case text == "G91":
		s.coordMode = Incremental
		return nil

	case text == "G05":
		s.drilling = true
		return nil
	case text == "G00":
		s.drilling = false
		return nil

	case text == "M71":
		s.units, s.unitsSet = Millimeters, true
		if !s.formatSet {
			s.format = defaultFormat(s.units)
		}
		return nil
	case text == "M72":
		s.units, s.unitsSet = Inches, true
		if !s.formatSet {
			s.format = defaultFormat(s.units)
		}
		return nil

	case metricInchPattern.MatchString(text):
		m := metricInchPattern.FindStringSubmatch(text)
		if m[1] == "METRIC" {
			s.units, s.unitsSet = Millimeters, true
		} else {
			s.units, s.unitsSet = Inches, true
		}
		if !s.formatSet {
			f := defaultFormat(s.units)
			if m[2] == "LZ" {
				f.Suppress = SuppressLeading
			} else if m[2] == "TZ" {
				f.Suppress = SuppressTrailing
			}
			s.format = f
		}
		return nil

	case text == "M00" || text == "M30" || text == "M02":
		s.done = true
		return nil

	case toolDefPattern.MatchString(text):
		return execToolDef(s, text, line)

	case toolChangePattern.MatchString(text):
		m := toolChangePattern.FindStringSubmatch(text)
		id, _ := strconv.Atoi(m[1])
		if _, err := s.tool(id); err != nil {
			return fmt.Errorf("excellon: line %d: %w", line, err)
		}
		s.currentTool, s.currentToolSet = id, true
		return nil

	case coordFieldPattern.MatchString(text):
		return execCoordinate(s, text, line)

	default:
		s.warn(fmt.Sprintf("line %d: unrecognized command %q, ignored", line, text))
		return nil
	}
}

// execToolDef handles "Tn[,m]Cd[Fd][Sd][Hd][Bd][Zd]": a tool definition,
// or a tool range "Tn,m..." applying the same modifiers to every id in
// [n,m].
func execToolDef(s *state, text string, line int) error {
	m := toolDefPattern.FindStringSubmatch(text)
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("excellon: line %d: invalid tool id: %w", line, err)
	}
	lastID := id
	if m[2] != "" {
		lastID, err = strconv.Atoi(m[2])
		if err != nil {
			return fmt.Errorf("excellon: line %d: invalid tool range end: %w", line, err)
		}
	}

	var diameter float64
	for _, mod := range toolModPattern.FindAllStringSubmatch(m[3], -1) {
		if mod[1] != "C" {
			continue
		}
		v, err := strconv.ParseFloat(mod[2], 64)
		if err != nil {
			return fmt.Errorf("excellon: line %d: invalid tool diameter: %w", line, err)
		}
		diameter = toMM(v, s.units)
	}

	for tid := id; tid <= lastID; tid++ {
		if _, exists := s.tools[tid]; exists {
			s.warn(fmt.Sprintf("line %d: tool T%02d redefined", line, tid))
		}
		s.tools[tid] = &Tool{ID: tid, Diameter: diameter}
	}
	return nil
}

// execCoordinate handles an "X...Y..." drill record: both fields are
// optional (a repeated axis may be omitted), resolved against the current
// point under the active coordinate mode.
func execCoordinate(s *state, text string, line int) error {
	if !s.currentToolSet {
		return fmt.Errorf("excellon: line %d: coordinate record before any tool change", line)
	}
	tool, err := s.tool(s.currentTool)
	if err != nil {
		return fmt.Errorf("excellon: line %d: %w", line, err)
	}

	format := s.ensureFormat()
	x, y := s.x, s.y
	for _, m := range coordFieldPattern.FindAllStringSubmatch(text, -1) {
		v, err := format.Decode(m[2])
		if err != nil {
			return fmt.Errorf("excellon: line %d: %w", line, err)
		}
		v = toMM(v, s.units)
		switch m[1] {
		case "X":
			if s.coordMode == Incremental {
				x = s.x + v
			} else {
				x = v
			}
		case "Y":
			if s.coordMode == Incremental {
				y = s.y + v
			} else {
				y = v
			}
		}
	}

	s.x, s.y = x, y
	hole := Hole{X: x, Y: y, Diameter: tool.Diameter, Tool: tool.ID}
	s.holes = append(s.holes, hole)
	s.bounds = s.bounds.Grow(x, y, tool.Diameter/2)
	return nil
}
