package polygon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnion_Disjoint(t *testing.T) {
	a := Set{RectangleToPolygon(2, 2)}
	bSquare := RectangleToPolygon(2, 2)
	bSquare.Translate(10, 0)
	b := Set{bSquare}

	result, bounds := Union(a, b)
	assert.NotEmpty(t, result)
	assert.InDelta(t, -1.0, bounds.MinX, 1e-6)
	assert.InDelta(t, 11.0, bounds.MaxX, 1e-6)
}

func TestSubtract_HoleInRectangle(t *testing.T) {
	outer := Set{RectangleToPolygon(10, 10)}
	inner := Set{RectangleToPolygon(2, 2)}

	result, bounds := Subtract(outer, inner)
	assert.NotEmpty(t, result)
	assert.InDelta(t, -5.0, bounds.MinX, 1e-6)
	assert.InDelta(t, 5.0, bounds.MaxX, 1e-6)
}
