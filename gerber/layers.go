package gerber

import (
	"io"

	"github.com/gmlewis/go-gerber-image/excellon"
	"github.com/gmlewis/go-gerber-image/polygon"
)

// Gerber groups the parsed layers making up one PCB fabrication job. Each
// layer's file name is the job prefix plus the conventional Gerber
// layer-file suffix (.gtl, .gts, .gbl, .gbs, .xln, .gko, ...).
type Gerber struct {
	// FilenamePrefix is the shared filename prefix of the job's layer
	// files (e.g. "bifilar-coil").
	FilenamePrefix string
	// Layers holds every layer loaded into this job, in load order.
	Layers []*Layer
}

// Layer is one parsed Gerber (or Excellon) layer file belonging to a job.
// A Gerber layer populates Doc; an Excellon drill layer populates Drill
// instead, leaving Doc nil.
type Layer struct {
	// Filename is this layer's file name.
	Filename string
	// Doc is the layer's resolved geometry, once loaded. Nil for drill
	// layers.
	Doc *Document
	// Drill is the layer's resolved hole set, once loaded. Nil for Gerber
	// layers.
	Drill *excellon.Document

	g *Gerber // owning job
}

// New returns a new, empty Gerber job.
// filenamePrefix is the base filename shared by all of the job's layer
// files (e.g. "bifilar-coil").
func New(filenamePrefix string) *Gerber {
	return &Gerber{FilenamePrefix: filenamePrefix}
}

// load parses r as a Gerber file, attaches the result to a new Layer with
// the given suffix, and appends it to the job.
func (g *Gerber) load(suffix string, r io.Reader, opts Options) (*Layer, error) {
	doc, err := Parse(r, opts)
	if err != nil {
		return nil, err
	}
	l := &Layer{Filename: g.FilenamePrefix + suffix, Doc: doc, g: g}
	g.Layers = append(g.Layers, l)
	return l, nil
}

// TopCopper loads r as the job's top copper layer (.gtl).
func (g *Gerber) TopCopper(r io.Reader, opts Options) (*Layer, error) {
	return g.load(".gtl", r, opts)
}

// TopSolderMask loads r as the job's top solder mask layer (.gts).
func (g *Gerber) TopSolderMask(r io.Reader, opts Options) (*Layer, error) {
	return g.load(".gts", r, opts)
}

// BottomCopper loads r as the job's bottom copper layer (.gbl).
func (g *Gerber) BottomCopper(r io.Reader, opts Options) (*Layer, error) {
	return g.load(".gbl", r, opts)
}

// BottomSolderMask loads r as the job's bottom solder mask layer (.gbs).
func (g *Gerber) BottomSolderMask(r io.Reader, opts Options) (*Layer, error) {
	return g.load(".gbs", r, opts)
}

// Outline loads r as the job's board outline layer (.gko).
func (g *Gerber) Outline(r io.Reader, opts Options) (*Layer, error) {
	return g.load(".gko", r, opts)
}

// LoadDrill loads r as the job's Excellon drill layer (.xln). Its geometry
// is a hole set rather than a Document, so it populates Layer.Drill
// instead of Layer.Doc.
func (g *Gerber) LoadDrill(r io.Reader) (*Layer, error) {
	doc, err := excellon.Parse(r)
	if err != nil {
		return nil, err
	}
	l := &Layer{Filename: g.FilenamePrefix + ".xln", Drill: doc, g: g}
	g.Layers = append(g.Layers, l)
	return l, nil
}

// LayerImage is one layer's composed solid image.
type LayerImage struct {
	Filename string
	Shape    polygon.Set
	Bounds   polygon.Bounds
}

// Polygons is a job's composed images, one per loaded layer.
type Polygons []LayerImage

// ComposeSolidImage composes each loaded Gerber layer's Document into its
// own solid image and returns one LayerImage per layer, in layer-load
// order; layers are not merged into each other. The drill layer (whose Doc is
// nil) is skipped; its holes are typically subtracted from a specific
// copper or mask layer by the caller, not blended into every layer alike.
func (g *Gerber) ComposeSolidImage(useUnion bool) (Polygons, error) {
	var out Polygons
	for _, l := range g.Layers {
		if l.Doc == nil {
			continue
		}
		shape, bounds, err := l.Doc.ComposeSolidImage(useUnion)
		if err != nil {
			return nil, err
		}
		out = append(out, LayerImage{Filename: l.Filename, Shape: shape, Bounds: bounds})
	}
	return out, nil
}
