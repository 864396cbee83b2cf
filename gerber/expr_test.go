package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func eval(t *testing.T, s string, mem Memory) float64 {
	t.Helper()
	e, err := ParseExpr(s)
	assert.NoError(t, err)
	return e.Eval(mem)
}

func TestParseExpr_Literal(t *testing.T) {
	assert.Equal(t, 3.5, eval(t, "3.5", nil))
}

func TestParseExpr_UnaryMinusCollapsesLiteral(t *testing.T) {
	e, err := ParseExpr("-5")
	assert.NoError(t, err)
	_, isNumber := e.(numberExpr)
	assert.True(t, isNumber)
	assert.Equal(t, -5.0, e.Eval(nil))
}

func TestParseExpr_Precedence(t *testing.T) {
	assert.Equal(t, 14.0, eval(t, "2+3x4", nil))
	assert.Equal(t, 20.0, eval(t, "(2+3)x4", nil))
}

func TestParseExpr_Variables(t *testing.T) {
	mem := Memory{1: 10, 2: 2}
	assert.Equal(t, 5.0, eval(t, "$1/$2", mem))
}

func TestParseExpr_UnsetVariableIsZero(t *testing.T) {
	mem := Memory{}
	assert.Equal(t, 0.0, eval(t, "$9", mem))
}

func TestParseExpr_Division(t *testing.T) {
	assert.Equal(t, 2.5, eval(t, "5/2", nil))
}

func TestParseExpr_NestedParens(t *testing.T) {
	assert.Equal(t, 9.0, eval(t, "((1+2)X3)", nil))
}

func TestParseExpr_TrailingGarbageIsError(t *testing.T) {
	_, err := ParseExpr("1+2)")
	assert.Error(t, err)
}
