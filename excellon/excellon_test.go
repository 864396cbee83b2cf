package excellon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BasicDrillFile(t *testing.T) {
	src := `M48
;FORMAT={3:3/ absolute / metric / leading}
METRIC,LZ
T01C0.3000
T02C0.6000
%
T01
X1000Y2000
X3000Y2000
T02
X5000Y5000
M30
`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Holes, 3)

	assert.InDelta(t, 1.0, doc.Holes[0].X, 1e-9)
	assert.InDelta(t, 2.0, doc.Holes[0].Y, 1e-9)
	assert.InDelta(t, 0.3, doc.Holes[0].Diameter, 1e-9)

	assert.InDelta(t, 5.0, doc.Holes[2].X, 1e-9)
	assert.Equal(t, 2, doc.Holes[2].Tool)
}

func TestParse_IncrementalMode(t *testing.T) {
	src := `METRIC,LZ
T01C0.5000
%
G90
T01
X1000Y1000
G91
X500Y500
M30
`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Holes, 2)
	assert.InDelta(t, 1.0, doc.Holes[0].X, 1e-9)
	assert.InDelta(t, 1.5, doc.Holes[1].X, 1e-9)
	assert.InDelta(t, 1.5, doc.Holes[1].Y, 1e-9)
}

func TestParse_ToolRange(t *testing.T) {
	src := `METRIC,LZ
T01,03C0.2500
%
T02
X1000Y1000
M30
`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Holes, 1)
	assert.InDelta(t, 0.25, doc.Holes[0].Diameter, 1e-9)
}

func TestParse_UndefinedToolChangeErrors(t *testing.T) {
	src := `METRIC,LZ
%
T09
X1000Y1000
M30
`
	_, err := Parse(strings.NewReader(src))
	assert.Error(t, err)
}

func TestParse_CoordinateBeforeToolChangeErrors(t *testing.T) {
	src := `METRIC,LZ
T01C0.3
%
X1000Y1000
M30
`
	_, err := Parse(strings.NewReader(src))
	assert.Error(t, err)
}

func TestParse_BoundsGrowByRadius(t *testing.T) {
	src := `METRIC,LZ
T01C1.0000
%
T01
X0Y0
M30
`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.InDelta(t, -0.5, doc.Bounds.MinX, 1e-9)
	assert.InDelta(t, 0.5, doc.Bounds.MaxX, 1e-9)
}

func TestFormat_DecodeLeadingSuppression(t *testing.T) {
	f := Format{IntDigits: 2, DecDigits: 4, Suppress: SuppressLeading}
	v, err := f.Decode("10000")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestFormat_DecodeTrailingSuppression(t *testing.T) {
	f := Format{IntDigits: 2, DecDigits: 4, Suppress: SuppressTrailing}
	v, err := f.Decode("1")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)
}
