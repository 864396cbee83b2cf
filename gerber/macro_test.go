package gerber

import (
	"testing"

	"github.com/gmlewis/go-gerber-image/polygon"
	"github.com/stretchr/testify/assert"
)

func num(v float64) Expr { return numberExpr(v) }

func TestMacro_Circle(t *testing.T) {
	m := &Macro{Elements: []MacroElement{
		{Primitive: &MacroPrimitiveDef{Code: 1, Modifiers: []Expr{num(1), num(2), num(0), num(0)}}},
	}}
	shape, err := m.Expand(nil)
	assert.NoError(t, err)
	assert.Len(t, shape, 1)
	b := polygon.BoundsOfSet(shape)
	assert.InDelta(t, 2.0, b.MaxX-b.MinX, 1e-6)
}

func TestMacro_CenterLine(t *testing.T) {
	m := &Macro{Elements: []MacroElement{
		{Primitive: &MacroPrimitiveDef{Code: 21, Modifiers: []Expr{num(1), num(4), num(2), num(0), num(0), num(0)}}},
	}}
	shape, err := m.Expand(nil)
	assert.NoError(t, err)
	b := polygon.BoundsOfSet(shape)
	assert.InDelta(t, 4.0, b.MaxX-b.MinX, 1e-6)
	assert.InDelta(t, 2.0, b.MaxY-b.MinY, 1e-6)
}

func TestMacro_ThermalRequiresOuterGreaterThanInner(t *testing.T) {
	m := &Macro{Elements: []MacroElement{
		{Primitive: &MacroPrimitiveDef{Code: 7, Modifiers: []Expr{num(0), num(0), num(5), num(10), num(1), num(0)}}},
	}}
	_, err := m.Expand(nil)
	assert.Error(t, err)
}

func TestMacro_ThermalProducesFourWedges(t *testing.T) {
	m := &Macro{Elements: []MacroElement{
		{Primitive: &MacroPrimitiveDef{Code: 7, Modifiers: []Expr{num(0), num(0), num(10), num(6), num(1), num(0)}}},
	}}
	shape, err := m.Expand(nil)
	assert.NoError(t, err)
	assert.Len(t, shape, 4)
}

func TestMacro_NegativeExposureGoesToNegativePile(t *testing.T) {
	m := &Macro{Elements: []MacroElement{
		{Primitive: &MacroPrimitiveDef{Code: 1, Modifiers: []Expr{num(1), num(10), num(0), num(0)}}},
		{Primitive: &MacroPrimitiveDef{Code: 1, Modifiers: []Expr{num(0), num(4), num(0), num(0)}}},
	}}
	shape, err := m.Expand(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, shape)
	b := polygon.BoundsOfSet(shape)
	// The positive 10-diameter circle with a 4-diameter hole still spans
	// the full outer diameter.
	assert.InDelta(t, 10.0, b.MaxX-b.MinX, 1e-2)
}

func TestMacro_VariableDefinitionFeedsLaterPrimitive(t *testing.T) {
	m := &Macro{Elements: []MacroElement{
		{Var: &MacroVarDef{ID: 1, Expr: num(5)}},
		{Primitive: &MacroPrimitiveDef{Code: 1, Modifiers: []Expr{num(1), varExpr(1), num(0), num(0)}}},
	}}
	shape, err := m.Expand(nil)
	assert.NoError(t, err)
	b := polygon.BoundsOfSet(shape)
	assert.InDelta(t, 5.0, b.MaxX-b.MinX, 1e-6)
}
