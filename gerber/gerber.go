// Package gerber interprets Gerber RS-274X/X2 fabrication files (for
// PCBs) into a resolved primitive geometry model, ready for Boolean
// composition into a solid image or export to any downstream renderer.
package gerber

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gmlewis/go-gerber-image/polygon"
)

// Document is the result of parsing one Gerber file: its resolved
// primitives in source order, plus any non-fatal warnings collected along
// the way.
type Document struct {
	Primitives []Primitive
	Warnings   []Warning
}

// Parse reads a complete Gerber file from r and interprets it into a
// Document. Parsing stops at the first fatal error (malformed command,
// missing required state, invalid geometry); non-fatal issues are
// recorded as warnings instead.
func Parse(r io.Reader, opts Options) (*Document, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("gerber: reading input: %w", err)
	}

	state := NewGerberState(opts)
	var cmdErr error
	tok := NewTokenizer(func(line int, raw string) error {
		if state.done {
			return nil
		}
		cmd, err := Dispatch(raw)
		if err != nil {
			cmdErr = err
			return err
		}
		if err := cmd.execute(state, line); err != nil {
			cmdErr = err
			return err
		}
		return nil
	})

	if err := tok.Feed(data); err != nil {
		if cmdErr != nil {
			return nil, cmdErr
		}
		return nil, err
	}
	if !state.done {
		state.warn(0, "document ended without M02/M00")
		state.primitives = state.consumerStack[0].primitives()
	}

	return &Document{Primitives: state.primitives, Warnings: state.warnings}, nil
}

// ComposeSolidImage composes a Document's resolved objects into a single
// solid image, walking them in source order and partitioning by polarity
// (spec.md §6): light objects accumulate in a pending buffer; when a dark
// object follows one or more pending lights, the pending buffer is first
// subtracted from the running image before the dark object is added.
// Polarity is temporal, not set-theoretic, so this ordered walk cannot be
// replaced by a single final union/subtract pass. When useUnion is true
// the result is also unioned against the empty set, which normalizes away
// any self-overlap left by the concatenation fast path.
func (d *Document) ComposeSolidImage(useUnion bool) (polygon.Set, polygon.Bounds, error) {
	var image, pendingLight polygon.Set
	bounds := polygon.EmptyBounds()

	flushLight := func() {
		if len(pendingLight) == 0 {
			return
		}
		image, _ = polygon.Subtract(image, pendingLight)
		pendingLight = nil
	}

	for _, p := range d.Primitives {
		objs, err := p.Objects()
		if err != nil {
			return nil, polygon.Bounds{}, err
		}
		for _, o := range objs {
			bounds = bounds.Union(polygon.BoundsOfSet(o.Shape))
			switch o.Polarity {
			case Dark:
				flushLight()
				image = append(image, o.Shape...)
			case Light:
				pendingLight = append(pendingLight, o.Shape...)
			}
		}
	}
	flushLight()

	if useUnion && len(image) > 0 {
		image, _ = polygon.Union(image, nil)
	}

	return image, bounds, nil
}
