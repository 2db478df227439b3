package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandaadir05/shaynefro-compiler/internal/token"
)

func allTokens(t *testing.T, l *Lexer) []token.Token {
	t.Helper()

	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF || tok.Kind == token.ERROR {
			break
		}
	}

	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}

	return out
}

func TestLexerBasicDeclaration(t *testing.T) {
	l, err := New("int x = 42;", "test.shay")
	require.NoError(t, err)

	toks := allTokens(t, l)
	assert.Equal(t, []token.Kind{
		token.INT, token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.SEMICOLON, token.EOF,
	}, kinds(toks))
	assert.Equal(t, int64(42), toks[3].IntValue)
	assert.Equal(t, "x", toks[1].Lexeme)
}

func TestLexerKeywordsVsIdentifiers(t *testing.T) {
	l, err := New("int integers", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, token.IDENTIFIER, toks[1].Kind)
}

func TestLexerNumericBases(t *testing.T) {
	l, err := New("0 0x0 0b0 0o0 1.5e-10 1. .5", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	want := []struct {
		kind token.Kind
		i    int64
		f    float64
	}{
		{token.INTEGER, 0, 0},
		{token.INTEGER, 0, 0},
		{token.INTEGER, 0, 0},
		{token.INTEGER, 0, 0},
		{token.FLOAT, 0, 1.5e-10},
		{token.INTEGER, 1, 0},
		{token.DOT, 0, 0},
		{token.DOT, 0, 0},
		{token.INTEGER, 5, 0},
	}

	require.Len(t, toks, len(want)+1) // +1 for EOF
	for i, w := range want {
		assert.Equal(t, w.kind, toks[i].Kind, "token %d", i)
		if w.kind == token.INTEGER {
			assert.Equal(t, w.i, toks[i].IntValue, "token %d", i)
		}
		if w.kind == token.FLOAT {
			assert.InDelta(t, w.f, toks[i].FloatValue, 1e-20, "token %d", i)
		}
	}
}

func TestLexerHexAndBinaryAddition(t *testing.T) {
	l, err := New("0xFF + 0b10", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	require.Len(t, toks, 4) // 0xFF, +, 0b10, EOF
	assert.Equal(t, int64(255), toks[0].IntValue)
	assert.Equal(t, token.PLUS, toks[1].Kind)
	assert.Equal(t, int64(2), toks[2].IntValue)
}

func TestLexerStringEscapes(t *testing.T) {
	l, err := New(`"a\nb\tc\\d\"e\x41B"`, "t")
	require.NoError(t, err)

	tok := l.Next()
	require.Equal(t, token.STRING, tok.Kind)
	require.NotNil(t, tok.StrValue)
	assert.Equal(t, "a\nb\tc\\d\"eAB", *tok.StrValue)
}

func TestLexerStringUnknownEscapePreservesBackslash(t *testing.T) {
	l, err := New(`"\q"`, "t")
	require.NoError(t, err)

	tok := l.Next()
	require.Equal(t, token.STRING, tok.Kind)
	assert.Equal(t, `\q`, *tok.StrValue)
}

func TestLexerUnterminatedString(t *testing.T) {
	l, err := New(`"unterminated`, "t")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, token.ERROR, tok.Kind)
	assert.True(t, l.HasError())
	assert.Contains(t, l.ErrorMessage(), "Unterminated string")
}

func TestLexerCharLiteral(t *testing.T) {
	l, err := New(`'a' '\n'`, "t")
	require.NoError(t, err)

	a := l.Next()
	require.Equal(t, token.CHAR, a.Kind)
	assert.Equal(t, "a", *a.StrValue)

	l.Next() // scans the second literal, '\n', without checking it
}

func TestLexerUnterminatedCharLiteral(t *testing.T) {
	l, err := New(`'a`, "t")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, token.ERROR, tok.Kind)
}

func TestLexerLineComment(t *testing.T) {
	l, err := New("int x // trailing comment\n", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	assert.Equal(t, []token.Kind{token.INT, token.IDENTIFIER, token.NEWLINE, token.EOF}, kinds(toks))
}

func TestLexerBlockComment(t *testing.T) {
	l, err := New("int /* comment */ x", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	assert.Equal(t, []token.Kind{token.INT, token.IDENTIFIER, token.EOF}, kinds(toks))
}

func TestLexerUnterminatedBlockCommentIsError(t *testing.T) {
	l, err := New("int /* never closed", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	assert.Equal(t, token.ERROR, toks[len(toks)-1].Kind)
}

func TestLexerNestedBlockCommentNotSupported(t *testing.T) {
	l, err := New("/* outer /* inner */ still_here */", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	// The first */ closes the comment; "still_here" and the trailing "*/" are
	// lexed as ordinary tokens.
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
	assert.Equal(t, "still_here", toks[0].Lexeme)
}

func TestLexerMultiCharOperators(t *testing.T) {
	l, err := New("== != === <= >= && || << >> ++ -- += -= *= /= %= **= &= |= ^= <<= >>= -> :: ... **", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	want := []token.Kind{
		token.EQ, token.NEQ, token.STRICT_EQ, token.LE, token.GE, token.AND_AND, token.OR_OR,
		token.SHL, token.SHR, token.PLUS_PLUS, token.MINUS_MINUS, token.PLUS_ASSIGN,
		token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
		token.STAR_STAR_ASSIGN, token.AMP_ASSIGN, token.PIPE_ASSIGN, token.CARET_ASSIGN,
		token.SHL_ASSIGN, token.SHR_ASSIGN, token.ARROW, token.SCOPE, token.ELLIPSIS,
		token.STAR_STAR, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestLexerEmptySourceYieldsOnlyEOF(t *testing.T) {
	l, err := New("", "t")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, token.EOF, tok.Kind)

	// Further calls keep returning EOF.
	assert.Equal(t, token.EOF, l.Next().Kind)
}

func TestLexerWhitespaceAndCommentsOnlyIsEmpty(t *testing.T) {
	l, err := New("   // just a comment\n/* and a block */  ", "t")
	require.NoError(t, err)

	toks := allTokens(t, l)
	assert.Equal(t, []token.Kind{token.NEWLINE, token.EOF}, kinds(toks))
}

func TestLexerPeekDoesNotAdvance(t *testing.T) {
	l, err := New("int x", "t")
	require.NoError(t, err)

	peeked := l.Peek()
	next := l.Next()
	assert.Equal(t, peeked, next)

	// The stream continues correctly after the peek.
	assert.Equal(t, token.IDENTIFIER, l.Next().Kind)
}

func TestLexerPeekOfStringTokenMatchesNext(t *testing.T) {
	l, err := New(`"hello"`, "t")
	require.NoError(t, err)

	peeked := l.Peek()
	next := l.Next()

	require.NotNil(t, peeked.StrValue)
	require.NotNil(t, next.StrValue)
	assert.Equal(t, *peeked.StrValue, *next.StrValue)
	assert.Equal(t, peeked.Kind, next.Kind)
	assert.Equal(t, peeked.Pos, next.Pos)
}

func TestLexerUnicodeIdentifier(t *testing.T) {
	l, err := New("únicódeShouldBeVàlid := 1", "t")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, token.IDENTIFIER, tok.Kind)
	assert.Equal(t, "únicódeShouldBeVàlid", tok.Lexeme)
}

func TestLexerInvalidSymbolIsError(t *testing.T) {
	l, err := New("@", "t")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, token.ERROR, tok.Kind)
	assert.True(t, l.HasError())
}

func TestLexerPositionTracksLinesAndColumns(t *testing.T) {
	l, err := New("int x\nint y", "t")
	require.NoError(t, err)

	tok := l.Next() // "int"
	assert.Equal(t, 1, tok.Pos.Line)
	assert.Equal(t, 1, tok.Pos.Column)

	l.Next() // "x"
	l.Next() // NEWLINE
	tok = l.Next()
	assert.Equal(t, 2, tok.Pos.Line)
	assert.Equal(t, 1, tok.Pos.Column)
}

func benchmarkLexer(b *testing.B, source string) {
	for n := 0; n < b.N; n++ {
		l, err := New(source, "bench")
		if err != nil {
			b.Fatal(err)
		}

		for {
			tok := l.Next()
			if tok.Kind == token.EOF || tok.Kind == token.ERROR {
				break
			}
		}
	}
}

func BenchmarkLexerSmall(b *testing.B) {
	benchmarkLexer(b, "int x = 42;\nreturn x + 1;\n")
}
