// Package lexer turns a source buffer into a lazy sequence of Tokens. One Token is
// produced per call to Next; the stream always terminates in (and then repeats)
// token.EOF. The lexer owns a byte arena used to intern escape-decoded string and
// character literal values, since those are no longer contiguous spans of the
// original source once their escapes have been resolved.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/pandaadir05/shaynefro-compiler/internal/arena"
	"github.com/pandaadir05/shaynefro-compiler/internal/token"
)

// multiCharOperators holds every multi-character operator/punctuation form the lexer
// recognizes, ordered so that a longest-match scan can walk it by decreasing
// length. "//" is deliberately absent: it is handled as a line comment, not an
// operator.
var multiCharOperators = []struct {
	text string
	kind token.Kind
}{
	{"<<=", token.SHL_ASSIGN},
	{">>=", token.SHR_ASSIGN},
	{"**=", token.STAR_STAR_ASSIGN},
	{"===", token.STRICT_EQ},
	{"...", token.ELLIPSIS},
	{"==", token.EQ},
	{"!=", token.NEQ},
	{"<=", token.LE},
	{">=", token.GE},
	{"&&", token.AND_AND},
	{"||", token.OR_OR},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"++", token.PLUS_PLUS},
	{"--", token.MINUS_MINUS},
	{"+=", token.PLUS_ASSIGN},
	{"-=", token.MINUS_ASSIGN},
	{"*=", token.STAR_ASSIGN},
	{"/=", token.SLASH_ASSIGN},
	{"%=", token.PERCENT_ASSIGN},
	{"&=", token.AMP_ASSIGN},
	{"|=", token.PIPE_ASSIGN},
	{"^=", token.CARET_ASSIGN},
	{"**", token.STAR_STAR},
	{"->", token.ARROW},
	{"::", token.SCOPE},
}

var singleCharOperators = map[byte]token.Kind{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'=': token.ASSIGN,
	'<': token.LT,
	'>': token.GT,
	'!': token.BANG,
	'&': token.AMP,
	'|': token.PIPE,
	'^': token.CARET,
	'~': token.TILDE,
	'?': token.QUESTION,
	'#': token.HASH,
	'.': token.DOT,
	':': token.COLON,
	';': token.SEMICOLON,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	',': token.COMMA,
}

// Lexer scans a source buffer into Tokens. A Lexer must not be reused across
// unrelated sources and is not safe for concurrent use -- the core's concurrency
// model is strictly single-threaded (see the specification's §5).
type Lexer struct {
	source   string
	filename string

	pos    int // byte offset of the next unread byte
	line   int
	column int

	start       int // byte offset where the in-progress lexeme began
	startLine   int
	startColumn int

	strings *arena.BytesArena

	hasError bool
	errMsg   string

	tokensEmitted int
}

// New creates a Lexer over source, attributing positions to filename (used only in
// error messages and Position.String).
func New(source, filename string) (*Lexer, error) {
	if !utf8.ValidString(source) {
		return nil, errors.New("lexer: source is not valid UTF-8")
	}

	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
		strings:  arena.NewBytes(0, 0),
	}, nil
}

// HasError reports whether the lexer has latched a lexical error.
func (l *Lexer) HasError() bool {
	return l.hasError
}

// ErrorMessage returns the latched error message, or "" if none occurred yet.
func (l *Lexer) ErrorMessage() string {
	return l.errMsg
}

// TokensEmitted returns the number of tokens produced by Next so far, not counting
// tokens observed only through Peek. Used by the benchmark driver.
func (l *Lexer) TokensEmitted() int {
	return l.tokensEmitted
}

// InternString copies b into the lexer's string arena, appending a terminating
// sentinel byte, and returns a stable pointer to the copy. No deduplication is
// performed.
func (l *Lexer) InternString(b []byte) (*string, error) {
	return l.strings.Intern(b)
}

// snapshot captures every field Peek must be able to restore around a Next call.
type snapshot struct {
	pos, line, column              int
	start, startLine, startColumn  int
	hasError                       bool
	errMsg                         string
	tokensEmitted                  int
	strings                        arena.BytesSnapshot
}

func (l *Lexer) snapshot() snapshot {
	return snapshot{
		pos: l.pos, line: l.line, column: l.column,
		start: l.start, startLine: l.startLine, startColumn: l.startColumn,
		hasError: l.hasError, errMsg: l.errMsg, tokensEmitted: l.tokensEmitted,
		strings: l.strings.Snapshot(),
	}
}

func (l *Lexer) restore(s snapshot) {
	l.pos, l.line, l.column = s.pos, s.line, s.column
	l.start, l.startLine, l.startColumn = s.start, s.startLine, s.startColumn
	l.hasError, l.errMsg = s.hasError, s.errMsg
	l.tokensEmitted = s.tokensEmitted
	l.strings.Restore(s.strings)
}

// Peek returns the next token without advancing the lexer. It is implemented by
// snapshotting the complete lexer state, delegating to Next, and restoring the
// snapshot -- there is no persistent lookahead queue, so the observable sequence of
// Next results is unaffected by any number of interleaved Peek calls.
func (l *Lexer) Peek() token.Token {
	s := l.snapshot()
	tok := l.Next()
	l.restore(s)

	return tok
}

// Next scans and returns the next token. Once EOF has been returned, every further
// call returns EOF again without re-reading the (already exhausted) source.
func (l *Lexer) Next() token.Token {
	if !l.skipWhitespaceAndComments() {
		return l.errorToken("unterminated block comment")
	}

	l.start, l.startLine, l.startColumn = l.pos, l.line, l.column

	if l.pos >= len(l.source) {
		return l.emit(token.Token{Kind: token.EOF})
	}

	c := l.source[l.pos]

	switch {
	case c == '\n':
		l.advance()
		return l.emit(token.Token{Kind: token.NEWLINE, Lexeme: "\n"})
	case isIdentStart(c):
		return l.scanIdentifier()
	case isDigit(c):
		return l.scanNumber()
	case c == '"':
		return l.scanString()
	case c == '\'':
		return l.scanChar()
	default:
		return l.scanOperator()
	}
}

// skipWhitespaceAndComments consumes spaces, tabs, carriage returns, line comments
// ("// ... \n") and block comments ("/* ... */") between tokens. Newlines are never
// skipped here -- they are emitted as their own NEWLINE token by Next. It reports
// false when a block comment runs to end-of-input, leaving the lexeme start at that
// comment's "/*".
func (l *Lexer) skipWhitespaceAndComments() bool {
	for l.pos < len(l.source) {
		c := l.source[l.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance()
		case c == '/' && l.peekByte(1) == '/':
			l.advance()
			l.advance()
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByte(1) == '*':
			l.start, l.startLine, l.startColumn = l.pos, l.line, l.column
			l.advance()
			l.advance()
			if !l.skipBlockComment() {
				return false
			}
		default:
			return true
		}
	}

	return true
}

// skipBlockComment consumes up to and including the first "*/". Per the
// specification's resolved open question (§9), an unterminated block comment is a
// lexical error rather than being silently absorbed to end-of-input: it reports
// false when end-of-input comes first, and Next then returns an ERROR token.
func (l *Lexer) skipBlockComment() bool {
	for {
		if l.pos >= len(l.source) {
			return false
		}

		if l.source[l.pos] == '*' && l.peekByte(1) == '/' {
			l.advance()
			l.advance()
			return true
		}

		l.advance()
	}
}

func (l *Lexer) scanIdentifier() token.Token {
	startOffset := l.pos
	for l.pos < len(l.source) && isIdentPart(l.source[l.pos]) {
		l.advance()
	}

	lexeme := l.source[startOffset:l.pos]
	if kind, ok := token.Keywords[lexeme]; ok {
		return l.emit(token.Token{Kind: kind, Lexeme: lexeme})
	}

	return l.emit(token.Token{Kind: token.IDENTIFIER, Lexeme: lexeme})
}

// scanNumber decodes integer and floating-point literals. A leading "0x"/"0X",
// "0b"/"0B", or "0o"/"0O" selects a base-16, base-2 or base-8 integer respectively;
// those forms are always integers. Otherwise decimal digits are scanned, and a
// trailing ".digit" mantissa or "e"/"E" exponent (optionally signed) promotes the
// literal to FLOAT; float forms are only reachable in base 10.
func (l *Lexer) scanNumber() token.Token {
	startOffset := l.pos

	if l.source[l.pos] == '0' && l.pos+1 < len(l.source) {
		switch l.source[l.pos+1] {
		case 'x', 'X':
			return l.scanBasedInteger(startOffset, 2, 16, isHexDigit)
		case 'b', 'B':
			return l.scanBasedInteger(startOffset, 2, 2, isBinaryDigit)
		case 'o', 'O':
			return l.scanBasedInteger(startOffset, 2, 8, isOctalDigit)
		}
	}

	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.advance()
	}

	isFloat := false

	if l.pos < len(l.source) && l.source[l.pos] == '.' && l.pos+1 < len(l.source) && isDigit(l.source[l.pos+1]) {
		isFloat = true
		l.advance() // consume '.'
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.advance()
		}
	}

	if l.pos < len(l.source) && (l.source[l.pos] == 'e' || l.source[l.pos] == 'E') {
		lookahead := l.pos + 1
		if lookahead < len(l.source) && (l.source[lookahead] == '+' || l.source[lookahead] == '-') {
			lookahead++
		}

		if lookahead < len(l.source) && isDigit(l.source[lookahead]) {
			isFloat = true
			l.advance() // consume 'e'/'E'
			if l.source[l.pos] == '+' || l.source[l.pos] == '-' {
				l.advance()
			}
			for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
				l.advance()
			}
		}
	}

	lexeme := l.source[startOffset:l.pos]
	if isFloat {
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return l.errorToken("invalid floating-point literal '%s'", lexeme)
		}

		return l.emit(token.Token{Kind: token.FLOAT, Lexeme: lexeme, FloatValue: v})
	}

	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return l.errorToken("invalid integer literal '%s'", lexeme)
	}

	return l.emit(token.Token{Kind: token.INTEGER, Lexeme: lexeme, IntValue: v})
}

func (l *Lexer) scanBasedInteger(startOffset, skip, base int, digit func(byte) bool) token.Token {
	for i := 0; i < skip; i++ {
		l.advance()
	}

	digitsStart := l.pos
	for l.pos < len(l.source) && digit(l.source[l.pos]) {
		l.advance()
	}

	digits := l.source[digitsStart:l.pos]
	lexeme := l.source[startOffset:l.pos]

	if digits == "" {
		return l.errorToken("invalid numeric literal '%s'", lexeme)
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return l.errorToken("invalid numeric literal '%s'", lexeme)
	}

	return l.emit(token.Token{Kind: token.INTEGER, Lexeme: lexeme, IntValue: v})
}

// scanString decodes a double-quoted string literal. Within the body, a backslash
// introduces an escape: the single-character forms n t r \ " ' 0 consume one
// character, \xHH consumes up to two hex digits, and \uHHHH consumes up to four.
// An unrecognized escape consumes the following byte and is preserved verbatim
// (backslash included) in the decoded value, per the specification's resolved open
// question (§9). Newlines inside the string body advance the position counter
// rather than ending the literal.
func (l *Lexer) scanString() token.Token {
	l.advance() // opening quote

	var decoded strings.Builder

	for {
		if l.pos >= len(l.source) {
			return l.errorToken("Unterminated string")
		}

		c := l.source[l.pos]
		if c == '"' {
			l.advance()
			break
		}

		if c == '\n' {
			decoded.WriteByte(c)
			l.advance()
			continue
		}

		if c != '\\' {
			decoded.WriteByte(c)
			l.advance()
			continue
		}

		l.advance() // consume backslash
		if !l.decodeEscape(&decoded) {
			return l.errorToken("Unterminated string")
		}
	}

	lexeme := l.source[l.start:l.pos]
	ref, err := l.strings.Intern([]byte(decoded.String()))
	if err != nil {
		return l.errorToken("string arena exhausted")
	}

	return l.emit(token.Token{Kind: token.STRING, Lexeme: lexeme, StrValue: ref})
}

// scanChar decodes a single-quoted character literal: one character, or a single
// backslash escape, followed by a closing quote.
func (l *Lexer) scanChar() token.Token {
	l.advance() // opening quote

	if l.pos >= len(l.source) {
		return l.errorToken("Unterminated character literal")
	}

	var decoded strings.Builder

	if l.source[l.pos] == '\'' {
		return l.errorToken("empty character literal")
	}

	if l.source[l.pos] == '\\' {
		l.advance()
		if !l.decodeEscape(&decoded) {
			return l.errorToken("Unterminated character literal")
		}
	} else {
		decoded.WriteByte(l.source[l.pos])
		l.advance()
	}

	if l.pos >= len(l.source) || l.source[l.pos] != '\'' {
		return l.errorToken("Unterminated character literal")
	}
	l.advance()

	lexeme := l.source[l.start:l.pos]
	ref, err := l.strings.Intern([]byte(decoded.String()))
	if err != nil {
		return l.errorToken("string arena exhausted")
	}

	return l.emit(token.Token{Kind: token.CHAR, Lexeme: lexeme, StrValue: ref})
}

// decodeEscape consumes the byte(s) following a backslash already consumed by the
// caller and writes the decoded form to out. It reports false if the source ends
// before the escape is complete.
func (l *Lexer) decodeEscape(out *strings.Builder) bool {
	if l.pos >= len(l.source) {
		return false
	}

	c := l.source[l.pos]

	switch c {
	case 'n':
		out.WriteByte('\n')
		l.advance()
	case 't':
		out.WriteByte('\t')
		l.advance()
	case 'r':
		out.WriteByte('\r')
		l.advance()
	case '\\':
		out.WriteByte('\\')
		l.advance()
	case '"':
		out.WriteByte('"')
		l.advance()
	case '\'':
		out.WriteByte('\'')
		l.advance()
	case '0':
		out.WriteByte(0)
		l.advance()
	case 'x':
		l.advance()
		out.WriteByte(byte(l.readHexDigits(2)))
	case 'u':
		l.advance()
		r := rune(l.readHexDigits(4))
		out.WriteRune(r)
	default:
		// Unknown escape: preserve the backslash and the byte verbatim.
		out.WriteByte('\\')
		out.WriteByte(c)
		l.advance()
	}

	return true
}

// readHexDigits consumes up to max hex digits and returns their integer value. It
// stops early if a non-hex-digit byte is found.
func (l *Lexer) readHexDigits(max int) int64 {
	start := l.pos
	for l.pos < len(l.source) && l.pos-start < max && isHexDigit(l.source[l.pos]) {
		l.advance()
	}

	if l.pos == start {
		return 0
	}

	v, _ := strconv.ParseInt(l.source[start:l.pos], 16, 64)
	return v
}

// scanOperator dispatches multi-character operators by longest match, falling back
// to the single-character table. An unrecognized byte is a lexical error.
func (l *Lexer) scanOperator() token.Token {
	remaining := l.source[l.pos:]

	for _, op := range multiCharOperators {
		if strings.HasPrefix(remaining, op.text) {
			for range op.text {
				l.advance()
			}

			return l.emit(token.Token{Kind: op.kind, Lexeme: op.text})
		}
	}

	c := l.source[l.pos]
	if kind, ok := singleCharOperators[c]; ok {
		l.advance()
		return l.emit(token.Token{Kind: kind, Lexeme: string(c)})
	}

	r, size := utf8.DecodeRuneInString(remaining)
	for i := 0; i < size; i++ {
		l.advance()
	}

	return l.errorToken("unexpected character '%c'", r)
}

// emit finalizes a token with the lexeme's starting position, as recorded when the
// lexeme began, so the position denotes the start of the lexeme rather than the
// cursor after it.
func (l *Lexer) emit(t token.Token) token.Token {
	t.Pos = token.Position{Line: l.startLine, Column: l.startColumn, Filename: l.filename}
	l.tokensEmitted++

	return t
}

// errorToken latches a lexical error and returns an ERROR token carrying the
// formatted message as its lexeme.
func (l *Lexer) errorToken(format string, args ...interface{}) token.Token {
	msg := errors.Errorf(format, args...).Error()

	l.latchError(msg)

	return l.emit(token.Token{Kind: token.ERROR, Lexeme: msg})
}

func (l *Lexer) latchError(msg string) {
	if !l.hasError {
		l.hasError = true
		l.errMsg = msg
	}
}

// advance consumes one byte from the source, updating line/column tracking. Line
// increments on '\n'; column resets to 1 on '\n' and otherwise increments.
func (l *Lexer) advance() {
	if l.pos >= len(l.source) {
		return
	}

	c := l.source[l.pos]
	l.pos++

	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekByte returns the byte offset bytes ahead of the cursor, or 0 if out of range.
func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.source) {
		return 0
	}

	return l.source[l.pos+offset]
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBinaryDigit(c byte) bool {
	return c == '0' || c == '1'
}

func isOctalDigit(c byte) bool {
	return c >= '0' && c <= '7'
}
