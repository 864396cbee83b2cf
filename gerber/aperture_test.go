package gerber

import (
	"testing"

	"github.com/gmlewis/go-gerber-image/polygon"
	"github.com/stretchr/testify/assert"
)

func TestAperture_Validate_IDTooSmall(t *testing.T) {
	a := &Aperture{ID: 5, Kind: StandardAperture, Template: TemplateCircle, Modifiers: []float64{1}}
	assert.Error(t, a.Validate())
}

func TestAperture_Validate_PolygonVertexCount(t *testing.T) {
	a := &Aperture{ID: 10, Kind: StandardAperture, Template: TemplatePolygon, Modifiers: []float64{1, 2}}
	assert.Error(t, a.Validate())

	a2 := &Aperture{ID: 10, Kind: StandardAperture, Template: TemplatePolygon, Modifiers: []float64{1, 6}}
	assert.NoError(t, a2.Validate())
}

func TestAperture_StandardCircle_ClosedAndCCW(t *testing.T) {
	a := &Aperture{ID: 10, Kind: StandardAperture, Template: TemplateCircle, Modifiers: []float64{1.0}}
	objs, err := a.objects(Dark)
	assert.NoError(t, err)
	assert.Len(t, objs, 1)
	shape := objs[0].Shape
	assert.Len(t, shape, 1)
	assert.True(t, shape[0].Closed(1e-9))
	assert.True(t, shape[0].IsCCW())
}

func TestAperture_LightPolarityOnBlockInvertsNested(t *testing.T) {
	a := &Aperture{
		ID:   10,
		Kind: BlockAperture,
		BlockObjects: []GraphicsObject{
			{Polarity: Dark, Shape: polygon.Set{polygon.RectangleToPolygon(1, 1)}},
			{Polarity: Light, Shape: polygon.Set{polygon.RectangleToPolygon(0.5, 0.5)}},
		},
	}
	dark, err := a.objects(Dark)
	assert.NoError(t, err)
	light, err := a.objects(Light)
	assert.NoError(t, err)
	assert.Equal(t, Dark, dark[0].Polarity)
	assert.Equal(t, Light, dark[1].Polarity)
	assert.Equal(t, Light, light[0].Polarity)
	assert.Equal(t, Dark, light[1].Polarity)
}

func TestGenerateLineDraw_ZeroLengthFlashes(t *testing.T) {
	a := &Aperture{ID: 10, Kind: StandardAperture, Template: TemplateCircle, Modifiers: []float64{2.0}}
	state := DefaultObjectState()
	p := Point{X: 1, Y: 1}
	poly, isSolid, err := a.generateLineDraw(p, p, state)
	assert.NoError(t, err)
	assert.True(t, isSolid)
	assert.NotEmpty(t, poly)
}

func TestGenerateLineDraw_HorizontalRectangleStroke(t *testing.T) {
	a := &Aperture{ID: 11, Kind: StandardAperture, Template: TemplateRect, Modifiers: []float64{2, 1}}
	state := DefaultObjectState()
	poly, isSolid, err := a.generateLineDraw(Point{X: -5, Y: 0}, Point{X: 5, Y: 0}, state)
	assert.NoError(t, err)
	assert.True(t, isSolid)
	b := polygon.BoundsOf(poly)
	assert.InDelta(t, 12.0, b.MaxX-b.MinX, 1e-9)
	assert.InDelta(t, 1.0, b.MaxY-b.MinY, 1e-9)
}

func TestGenerateArcDraw_CircleApertureHalfCircle(t *testing.T) {
	a := &Aperture{ID: 10, Kind: StandardAperture, Template: TemplateCircle, Modifiers: []float64{0.1}}
	state := DefaultObjectState()
	poly, isSolid, err := a.generateArcDraw(Point{X: 10, Y: 0}, Point{X: -10, Y: 0}, Point{X: 0, Y: 0}, state)
	assert.NoError(t, err)
	assert.True(t, isSolid)
	assert.NotEmpty(t, poly)
}
