package gerber

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFixed_LeadingSuppression(t *testing.T) {
	// Format 2.6: 2 integer digits, 6 decimal digits, leading zero suppress.
	v, err := decodeFixed("1000", 2, 6, ZeroSuppressLeading)
	assert.NoError(t, err)
	assert.InDelta(t, 0.001, v, 1e-9)
}

func TestDecodeFixed_TrailingSuppression(t *testing.T) {
	v, err := decodeFixed("1", 2, 6, ZeroSuppressTrailing)
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestDecodeFixed_Direct(t *testing.T) {
	v, err := decodeFixed("1.5", 2, 6, ZeroSuppressDirect)
	assert.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-9)
}

func TestDecodeFixed_Negative(t *testing.T) {
	v, err := decodeFixed("-1000", 2, 6, ZeroSuppressLeading)
	assert.NoError(t, err)
	assert.InDelta(t, -0.001, v, 1e-9)
}

func TestRoundTrip_LeadingSuppression(t *testing.T) {
	for _, v := range []float64{0, 1.5, -1.5, 0.000001, 123.456789} {
		enc := encodeFixed(v, 3, 6, ZeroSuppressLeading)
		dec, err := decodeFixed(enc, 3, 6, ZeroSuppressLeading)
		assert.NoError(t, err)
		assert.InDelta(t, v, dec, 1e-6)
	}
}

func TestRoundTrip_TrailingSuppression(t *testing.T) {
	for _, v := range []float64{0, 1.5, -1.5, 10, 123.456} {
		enc := encodeFixed(v, 3, 6, ZeroSuppressTrailing)
		dec, err := decodeFixed(enc, 3, 6, ZeroSuppressTrailing)
		assert.NoError(t, err)
		assert.InDelta(t, v, dec, 1e-6)
	}
}

func TestEncodeFixed_FallsBackOnPrecisionLoss(t *testing.T) {
	// 1 decimal digit can't hold 1.23456 -> plain decimal fallback.
	enc := encodeFixed(1.23456, 2, 1, ZeroSuppressLeading)
	assert.Contains(t, enc, ".")
}

func TestCoordinateFormat_DecodeXY(t *testing.T) {
	f := CoordinateFormat{IntDigitsX: 2, DecDigitsX: 6, IntDigitsY: 2, DecDigitsY: 6, ZeroSuppress: ZeroSuppressLeading}
	x, err := f.DecodeX("1000000")
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, x, 1e-9)
	y, err := f.DecodeY("1000000")
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, y, 1e-9)
}

func TestDecodeFixed_EmptyIsError(t *testing.T) {
	_, err := decodeFixed("", 2, 6, ZeroSuppressLeading)
	assert.Error(t, err)
}

func TestDecodeFixed_ZeroIsNotNaN(t *testing.T) {
	v, err := decodeFixed("0", 2, 6, ZeroSuppressLeading)
	assert.NoError(t, err)
	assert.False(t, math.IsNaN(v))
}
