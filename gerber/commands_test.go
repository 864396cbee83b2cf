package gerber

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimplePad(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
%ADD10C,1.500000*%
G01*
D10*
X0Y0D02*
D03*
M02*
`
	doc, err := Parse(strings.NewReader(src), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Primitives, 1)

	flash, ok := doc.Primitives[0].(*Flash)
	require.True(t, ok)
	assert.Equal(t, 0.0, flash.Center.X)
	assert.Equal(t, 0.0, flash.Center.Y)
	assert.Equal(t, Dark, flash.ObjState.Polarity)
}

func TestParse_LineAndPolarity(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
%ADD10C,0.500000*%
G01*
D10*
X0Y0D02*
X1000000Y0D01*
%LPC*%
D03*
M02*
`
	doc, err := Parse(strings.NewReader(src), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Primitives, 2)

	line, ok := doc.Primitives[0].(*Line)
	require.True(t, ok)
	assert.InDelta(t, 1.0, line.End.X, 1e-9)

	flash, ok := doc.Primitives[1].(*Flash)
	require.True(t, ok)
	assert.Equal(t, Light, flash.ObjState.Polarity)
}

func TestParse_MissingFormatIsFatal(t *testing.T) {
	src := `%MOMM*%
%ADD10C,0.5*%
D10*
X0Y0D02*
D03*
M02*
`
	_, err := Parse(strings.NewReader(src), Options{})
	require.Error(t, err)
}

func TestParse_UndefinedApertureIsFatal(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
D99*
M02*
`
	_, err := Parse(strings.NewReader(src), Options{})
	require.Error(t, err)
}

func TestParse_Region(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
G36*
X0Y0D02*
X1000000Y0D01*
X1000000Y1000000D01*
X0Y1000000D01*
X0Y0D01*
G37*
M02*
`
	doc, err := Parse(strings.NewReader(src), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Primitives, 1)
	_, ok := doc.Primitives[0].(*Region)
	assert.True(t, ok)
}

func TestParse_Region_MultipleContours(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
G36*
X0Y0D02*
X4000000Y0D01*
X4000000Y4000000D01*
X0Y4000000D01*
X0Y0D01*
X1000000Y1000000D02*
X2000000Y1000000D01*
X2000000Y2000000D01*
X1000000Y2000000D01*
X1000000Y1000000D01*
G37*
M02*
`
	doc, err := Parse(strings.NewReader(src), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Primitives, 1)

	region, ok := doc.Primitives[0].(*Region)
	require.True(t, ok)
	require.Len(t, region.Contours, 2, "D02 mid-region must close the first contour and open a second")
}

func TestParse_ArcCW(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
%ADD10C,0.200000*%
D10*
G75*
G02*
X0Y0D02*
X1000000Y0I500000J0D01*
M02*
`
	doc, err := Parse(strings.NewReader(src), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Primitives, 1)
	arc, ok := doc.Primitives[0].(*Arc)
	require.True(t, ok)
	assert.False(t, arc.CCW)
}

func TestParse_AttributesAreBookkeepingOnly(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
%TF.Part,Single*%
%TA.AperFunction,ComponentPad*%
%ADD10C,0.5*%
D10*
X0Y0D02*
D03*
%TD*%
M02*
`
	doc, err := Parse(strings.NewReader(src), Options{})
	require.NoError(t, err)
	assert.Len(t, doc.Primitives, 1)
}

func TestParse_StepAndRepeat_IgnoresOpenPointOffset(t *testing.T) {
	src := `%FSLAX26Y26*%
%MOMM*%
%ADD10C,1.000000*%
D10*
X5000000Y5000000D02*
SRX2Y3I5J4*
X0Y0D03*
SR*
M02*
`
	doc, err := Parse(strings.NewReader(src), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Primitives, 1)

	repeat, ok := doc.Primitives[0].(*Repeat)
	require.True(t, ok)

	objs, err := repeat.Objects()
	require.NoError(t, err)
	require.Len(t, objs, 6, "2x3 grid must replicate the flash exactly 6 times")

	bounds, err := repeat.Bounds()
	require.NoError(t, err)
	assert.InDelta(t, -0.5, bounds.MinX, 1e-9)
	assert.InDelta(t, -0.5, bounds.MinY, 1e-9)
	assert.InDelta(t, 5.5, bounds.MaxX, 1e-9)
	assert.InDelta(t, 8.5, bounds.MaxY, 1e-9)
}

func TestDispatch_UnknownCommandErrors(t *testing.T) {
	_, err := Dispatch("ZZ99")
	assert.Error(t, err)
}

func TestDispatch_NonSpecCommandsIgnored(t *testing.T) {
	for _, raw := range []string{"IPPOS", "LN", "AS", "OF"} {
		cmd, err := Dispatch(raw)
		require.NoError(t, err)
		_, ok := cmd.(*noopCommand)
		assert.True(t, ok, "expected %q to dispatch to a noop", raw)
	}
}
