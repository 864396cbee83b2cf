package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenize(t *testing.T, input string) []string {
	t.Helper()
	var got []string
	tok := NewTokenizer(func(line int, cmd string) error {
		got = append(got, cmd)
		return nil
	})
	assert.NoError(t, tok.Feed([]byte(input)))
	return got
}

func TestTokenizer_SimpleCommand(t *testing.T) {
	got := tokenize(t, "D10*")
	assert.Equal(t, []string{"D10"}, got)
}

func TestTokenizer_AdvancedBlock(t *testing.T) {
	got := tokenize(t, "%FSLAX26Y26*%")
	assert.Equal(t, []string{"FSLAX26Y26"}, got)
}

func TestTokenizer_ChainedAdvancedSubcommands(t *testing.T) {
	got := tokenize(t, "%LPD*LMN*%")
	assert.Equal(t, []string{"LPD", "LMN"}, got)
}

func TestTokenizer_MacroDefinitionStaysOneCommand(t *testing.T) {
	got := tokenize(t, "%AMDONUT*1,1,0.5,0,0*1,0,0.3,0,0*%")
	assert.Len(t, got, 1)
	assert.Contains(t, got[0], "AMDONUT")
}

func TestTokenizer_CompoundGThenD(t *testing.T) {
	got := tokenize(t, "G01X100Y200D01*")
	assert.Equal(t, []string{"G01", "X100Y200D01"}, got)
}

func TestTokenizer_G04CommentNotSplit(t *testing.T) {
	got := tokenize(t, "G04 this has a D in it*")
	assert.Equal(t, []string{"G04 this has a D in it"}, got)
}

func TestTokenizer_CanonicalizesAxisOrder(t *testing.T) {
	got := tokenize(t, "Y200X100D01*")
	assert.Equal(t, []string{"X100Y200D01"}, got)
}

func TestTokenizer_UnicodeEscape(t *testing.T) {
	got := tokenize(t, "G04 caf\\u00e9*")
	assert.Equal(t, []string{"G04 café"}, got)
}

func TestTokenizer_LineCounting(t *testing.T) {
	var lines []int
	tok := NewTokenizer(func(line int, cmd string) error {
		lines = append(lines, line)
		return nil
	})
	assert.NoError(t, tok.Feed([]byte("D10*\nD11*\n\nD12*")))
	assert.Equal(t, []int{1, 2, 4}, lines)
}
