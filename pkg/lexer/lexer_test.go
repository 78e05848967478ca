package lexer

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/token"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	file := source.NewSourceFile("test.aca", []byte(src))
	toks, err := Tokenize(file)
	require.Nil(t, err, "unexpected lexer error: %v", err)

	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}

	return out
}

func TestLexerIndentation(t *testing.T) {
	src := "if a:\n    x = 1\n    y = 2\nz = 3\n"
	toks := tokenize(t, src)
	got := kinds(toks)
	want := []token.Kind{
		token.KEYWORD, token.IDENT, token.OP, token.NEWLINE, token.INDENT,
		token.IDENT, token.OP, token.INT, token.NEWLINE,
		token.IDENT, token.OP, token.INT, token.NEWLINE,
		token.DEDENT, token.IDENT, token.OP, token.INT, token.NEWLINE, token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestLexerInvalidDedent(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte("if a:\n    x = 1\n  y = 2\n"))
	_, err := Tokenize(file)
	require.NotNil(t, err)
	assert.Equal(t, diag.InvalidDedent, err.Kind)
}

func TestLexerIntLiteralHexBin(t *testing.T) {
	toks := tokenize(t, "x = 0XF2e + 0b11\n")
	require.True(t, len(toks) >= 5)
	assert.Equal(t, int32(0xf2e), toks[2].IntValue)
	assert.Equal(t, int32(0b11), toks[4].IntValue)
}

func TestLexerIntOverflow(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte("x = 99999999999\n"))
	_, err := Tokenize(file)
	require.NotNil(t, err)
	assert.Equal(t, diag.IntOverflow, err.Kind)
}

func TestLexerUnclosedString(t *testing.T) {
	// S6: Source `s = "hello` fails with unclosed-quote at exactly the
	// line/column of the opening quote.
	file := source.NewSourceFile("test.aca", []byte(`s = "hello`))
	_, err := Tokenize(file)
	require.NotNil(t, err)
	assert.Equal(t, diag.UnclosedQuote, err.Kind)
	assert.Equal(t, 4, err.Span().Start())
}

func TestLexerStringWithHoleAndFont(t *testing.T) {
	toks := tokenize(t, `s = "hi {name}\f{bold}done\f{}"` + "\n")
	str := toks[2]
	require.Equal(t, token.STRING, str.Kind)
	require.Len(t, str.Segments, 5)
	assert.Equal(t, token.SegmentText, str.Segments[0].Seg)
	assert.Equal(t, token.SegmentHole, str.Segments[1].Seg)
	assert.Equal(t, "name", str.Segments[1].Text)
	assert.Equal(t, token.SegmentFont, str.Segments[2].Seg)
	assert.Equal(t, "bold", str.Segments[2].Text)
}

func TestLexerRawCommandInterpolation(t *testing.T) {
	toks := tokenize(t, "/tp @s ${x} 0 ${z}\n")
	require.Equal(t, token.RAWCOMMAND, toks[0].Kind)
	segs := toks[0].Segments
	require.Len(t, segs, 4)
	assert.Equal(t, token.SegmentInterp, segs[1].Seg)
	assert.Equal(t, "x", segs[1].Text)
	assert.Equal(t, token.SegmentInterp, segs[3].Seg)
	assert.Equal(t, "z", segs[3].Text)
}

func TestLexerDivisionIsNotRawCommand(t *testing.T) {
	toks := tokenize(t, "x = 4 / 2\n")
	require.True(t, len(toks) >= 6)
	assert.Equal(t, token.OP, toks[3].Kind)
	assert.Equal(t, "/", toks[3].Text)
}

func TestLexerLineContinuation(t *testing.T) {
	toks := tokenize(t, "x = 1 + \\\n    2\n")
	got := kinds(toks)
	want := []token.Kind{token.IDENT, token.OP, token.INT, token.OP, token.INT, token.NEWLINE, token.EOF}
	assert.Equal(t, want, got)
}

func TestLexerBracketSuppressesNewline(t *testing.T) {
	toks := tokenize(t, "x = [\n1,\n2,\n]\n")
	got := kinds(toks)
	want := []token.Kind{
		token.IDENT, token.OP, token.OP, token.INT, token.OP, token.INT, token.OP, token.OP, token.NEWLINE, token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestLexerUnclosedBracket(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte("x = (1 + 2\n"))
	_, err := Tokenize(file)
	require.NotNil(t, err)
	assert.Equal(t, diag.UnclosedBracket, err.Kind)
}

func TestLexerUnclosedLongComment(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte("#* hello\nworld\n"))
	_, err := Tokenize(file)
	require.NotNil(t, err)
	assert.Equal(t, diag.UnclosedLongComment, err.Kind)
}
