// Package parser implements the recursive-descent, precedence-climbing parser that
// turns a token stream into an AST rooted at a Program node. The parser consumes
// tokens from a lexer one at a time with one-token lookahead (the "current" token;
// there is no separate lookahead buffer beyond what the lexer's own Peek already
// snapshots internally). Errors are reported with position info and recovered from
// at statement boundaries via panic-mode synchronization.
package parser

import (
	"fmt"

	"github.com/pandaadir05/shaynefro-compiler/internal/arena"
	"github.com/pandaadir05/shaynefro-compiler/internal/ast"
	"github.com/pandaadir05/shaynefro-compiler/internal/lexer"
	"github.com/pandaadir05/shaynefro-compiler/internal/token"
)

// Parser builds an AST from a lexer's token stream. Not safe for concurrent use.
type Parser struct {
	lex *lexer.Lexer

	current  token.Token
	previous token.Token

	nodes *nodeArena

	hasError   bool
	errMsg     string
	panicMode  bool
	errorCount int
}

// New creates a Parser over lex, priming the first token and skipping any leading
// NEWLINEs. A lexical ERROR token encountered while priming is recorded as a parse
// error, exactly as it would be mid-parse.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex, nodes: newNodeArena()}

	p.advance()
	for p.current.Kind == token.NEWLINE {
		p.advance()
	}

	return p
}

// HasError reports whether any parse error was recorded.
func (p *Parser) HasError() bool {
	return p.hasError
}

// ErrorMessage returns the first recorded parse error, or "" if none occurred.
func (p *Parser) ErrorMessage() string {
	return p.errMsg
}

// Parse consumes the entire token stream and returns a Program node. Statements is
// populated only with top-level statements that parsed without error; a statement
// that fails is dropped after panic-mode recovery resynchronizes the stream, so
// later, independent statements can still be recovered.
func (p *Parser) Parse() *ast.Program {
	prog, err := p.nodes.program(p.current.Pos)
	if err != nil {
		p.internalError(err)
		return &ast.Program{}
	}

	for p.current.Kind != token.EOF {
		if p.current.Kind == token.NEWLINE {
			p.advance()
			continue
		}

		stmt, ok := p.statement()
		if ok {
			prog.Statements = append(prog.Statements, stmt)
		}
	}

	return prog
}

// advance fetches the next token from the lexer into current, saving the previous
// current into previous. Any ERROR token the lexer produces is absorbed here: one
// parse error ("Lexical error") is recorded per such token, and the scan continues
// until a non-error token is found.
func (p *Parser) advance() {
	p.previous = p.current

	for {
		p.current = p.lex.Next()
		if p.current.Kind == token.ERROR {
			p.errorAt(p.current.Pos, "Lexical error")
			continue
		}

		return
	}
}

// errorAt records a parse error at pos if the parser is not already in panic mode.
// Only the first error recorded across the whole parse is retained in ErrorMessage;
// subsequent errors within the same panic window are suppressed entirely, and
// errors recorded after a later synchronization still set panicMode (to suppress
// cascades in *that* window) without overwriting the retained message.
func (p *Parser) errorAt(pos token.Position, format string, args ...interface{}) {
	if p.panicMode {
		return
	}

	p.panicMode = true
	p.errorCount++

	msg := fmt.Sprintf("Error at line %d, column %d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))
	if !p.hasError {
		p.hasError = true
		p.errMsg = msg
	}
}

// internalError records arena exhaustion as a parse error; it should never trigger
// in practice, but the arena's contract requires that exhaustion propagate as an
// error rather than panic or corrupt state.
func (p *Parser) internalError(err error) {
	p.errorAt(p.current.Pos, "Internal error: %s", err.Error())
}

// synchronize advances past the rest of a broken statement, stopping once the
// previous token was ';', the current token begins a new declaration/statement, or
// EOF is reached. Panic mode is cleared once synchronized.
func (p *Parser) synchronize() {
	for {
		if p.previous.Kind == token.SEMICOLON {
			break
		}

		if p.current.Kind == token.EOF {
			break
		}

		if token.StatementStart[p.current.Kind] {
			break
		}

		p.advance()
	}

	p.panicMode = false
}

// statement dispatches to the production matching the current token and reports
// whether it completed without error. A failing statement is always resynchronized
// before returning, so the caller can safely proceed to the next one.
func (p *Parser) statement() (ast.Node, bool) {
	startErrors := p.errorCount

	var node ast.Node
	switch {
	case p.current.Kind == token.RETURN:
		node = p.returnStatement()
	case token.DeclarationTypes[p.current.Kind]:
		node = p.varDeclaration()
	default:
		node = p.expressionStatement()
	}

	if p.errorCount != startErrors {
		p.synchronize()
		return node, false
	}

	return node, true
}

// varDeclaration parses "type IDENT ('=' expression)? ';'".
func (p *Parser) varDeclaration() ast.Node {
	pos := p.current.Pos
	declType := p.current.Kind
	p.advance() // consume the type keyword

	if p.current.Kind != token.IDENTIFIER {
		p.errorAt(p.current.Pos, "Expected identifier")
		return p.bad(pos, "expected identifier after type")
	}

	name := p.current.Lexeme
	p.advance()

	var initializer ast.Node
	if p.current.Kind == token.ASSIGN {
		p.advance()
		initializer = p.expression()
	}

	p.expectSemicolon()

	node, err := p.nodes.varDecl(pos, declType, name, initializer)
	if err != nil {
		p.internalError(err)
		return p.bad(pos, "arena exhausted")
	}

	return node
}

// returnStatement parses "'return' expression? ';'".
func (p *Parser) returnStatement() ast.Node {
	pos := p.current.Pos
	p.advance() // consume 'return'

	var value ast.Node
	if p.current.Kind != token.SEMICOLON {
		value = p.expression()
	}

	p.expectSemicolon()

	node, err := p.nodes.returnStmt(pos, value)
	if err != nil {
		p.internalError(err)
		return p.bad(pos, "arena exhausted")
	}

	return node
}

// expressionStatement parses "expression ';'".
func (p *Parser) expressionStatement() ast.Node {
	pos := p.current.Pos
	expr := p.expression()

	p.expectSemicolon()

	node, err := p.nodes.exprStmt(pos, expr)
	if err != nil {
		p.internalError(err)
		return p.bad(pos, "arena exhausted")
	}

	return node
}

func (p *Parser) expectSemicolon() {
	if p.current.Kind != token.SEMICOLON {
		p.errorAt(p.current.Pos, "Expected ';'")
		return
	}

	p.advance()
}

// expression is the entry point of the precedence ladder (level 1, assignment).
func (p *Parser) expression() ast.Node {
	return p.assignment()
}

// assignment implements level 1: right-associative '=', whose left-hand side must
// be an identifier.
func (p *Parser) assignment() ast.Node {
	left := p.logicalOr()

	if p.current.Kind != token.ASSIGN {
		return left
	}

	pos := p.current.Pos
	p.advance()

	value := p.assignment() // right-associative: recurse at the same level

	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorAt(pos, "Invalid assignment target")
		return p.bad(pos, "invalid assignment target")
	}

	node, err := p.nodes.assignment(pos, ident, value)
	if err != nil {
		p.internalError(err)
		return p.bad(pos, "arena exhausted")
	}

	return node
}

// binaryLevel is the shared left-associative climbing loop used by every level
// below assignment; next produces operands and ops lists the token kinds this
// level accepts.
func (p *Parser) binaryLevel(next func() ast.Node, ops ...token.Kind) ast.Node {
	left := next()

	for {
		matched := false
		for _, op := range ops {
			if p.current.Kind == op {
				matched = true
				break
			}
		}

		if !matched {
			return left
		}

		opTok := p.current
		p.advance()

		right := next()

		node, err := p.nodes.binary(opTok.Pos, left, opTok.Kind, right)
		if err != nil {
			p.internalError(err)
			return p.bad(opTok.Pos, "arena exhausted")
		}

		left = node
	}
}

func (p *Parser) logicalOr() ast.Node {
	return p.binaryLevel(p.logicalAnd, token.OR_OR)
}

func (p *Parser) logicalAnd() ast.Node {
	return p.binaryLevel(p.equality, token.AND_AND)
}

func (p *Parser) equality() ast.Node {
	return p.binaryLevel(p.comparison, token.EQ, token.NEQ)
}

func (p *Parser) comparison() ast.Node {
	return p.binaryLevel(p.term, token.LT, token.LE, token.GT, token.GE)
}

func (p *Parser) term() ast.Node {
	return p.binaryLevel(p.factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() ast.Node {
	return p.binaryLevel(p.unary, token.STAR, token.SLASH, token.PERCENT)
}

// unary implements level 8: right-associative prefix '!' and '-'.
func (p *Parser) unary() ast.Node {
	if p.current.Kind == token.BANG || p.current.Kind == token.MINUS {
		opTok := p.current
		p.advance()

		operand := p.unary()

		node, err := p.nodes.unary(opTok.Pos, opTok.Kind, operand)
		if err != nil {
			p.internalError(err)
			return p.bad(opTok.Pos, "arena exhausted")
		}

		return node
	}

	return p.primary()
}

// primary implements level 9: literals, identifiers, and parenthesized expressions.
func (p *Parser) primary() ast.Node {
	tok := p.current

	switch tok.Kind {
	case token.LPAREN:
		p.advance()
		expr := p.expression()

		if p.current.Kind != token.RPAREN {
			p.errorAt(p.current.Pos, "Expected ')'")
			return p.bad(tok.Pos, "expected ')'")
		}
		p.advance()

		return expr

	case token.IDENTIFIER:
		p.advance()
		node, err := p.nodes.identifier(tok.Pos, tok.Lexeme)
		if err != nil {
			p.internalError(err)
			return p.bad(tok.Pos, "arena exhausted")
		}
		return node

	case token.INTEGER:
		p.advance()
		return p.mustLiteral(tok.Pos, ast.Literal{Kind: ast.IntegerLiteral, IntValue: tok.IntValue})

	case token.FLOAT:
		p.advance()
		return p.mustLiteral(tok.Pos, ast.Literal{Kind: ast.FloatLiteral, FloatValue: tok.FloatValue})

	case token.STRING:
		p.advance()
		value := ""
		if tok.StrValue != nil {
			value = *tok.StrValue
		}
		return p.mustLiteral(tok.Pos, ast.Literal{Kind: ast.StringLiteral, StringValue: value})

	case token.TRUE, token.FALSE:
		p.advance()
		return p.mustLiteral(tok.Pos, ast.Literal{Kind: ast.BoolLiteral, BoolValue: tok.Kind == token.TRUE})

	case token.NULL:
		p.advance()
		return p.mustLiteral(tok.Pos, ast.Literal{Kind: ast.NullLiteral})

	default:
		p.errorAt(tok.Pos, "Unexpected expression start '%s'", describeToken(tok))
		p.advance() // consume the offending token so recovery can make progress
		return p.bad(tok.Pos, "unexpected expression start")
	}
}

func (p *Parser) mustLiteral(pos token.Position, lit ast.Literal) ast.Node {
	node, err := p.nodes.literal(pos, lit)
	if err != nil {
		p.internalError(err)
		return p.bad(pos, "arena exhausted")
	}

	return node
}

func (p *Parser) bad(pos token.Position, message string) ast.Node {
	node, err := p.nodes.badNode(pos, message)
	if err != nil {
		// The arena backing Bad nodes is itself exhausted; there is nowhere left
		// to report this, so fall back to a node outside any arena. This never
		// aliases arena memory and is only reached under total allocation failure.
		return &ast.Bad{Message: message}
	}

	return node
}

func describeToken(tok token.Token) string {
	if tok.Lexeme != "" {
		return tok.Lexeme
	}

	return tok.Kind.String()
}

// nodeArena groups the per-node-type bump allocators the parser draws from. Go's
// lack of a single homogeneous "any node" allocator means one typed arena.Arena
// backs each concrete node struct; together they implement the specification's
// single conceptual "node arena" owned by the parser.
type nodeArena struct {
	literals     *arena.Arena[ast.Literal]
	identifiers  *arena.Arena[ast.Identifier]
	binaries     *arena.Arena[ast.Binary]
	unaries      *arena.Arena[ast.Unary]
	assignments  *arena.Arena[ast.Assignment]
	varDecls     *arena.Arena[ast.VarDeclaration]
	exprStmts    *arena.Arena[ast.ExpressionStatement]
	returnStmts  *arena.Arena[ast.ReturnStatement]
	programs     *arena.Arena[ast.Program]
	bads         *arena.Arena[ast.Bad]
}

const nodeSlabSize = 128

func newNodeArena() *nodeArena {
	return &nodeArena{
		literals:    arena.New[ast.Literal](nodeSlabSize, 0),
		identifiers: arena.New[ast.Identifier](nodeSlabSize, 0),
		binaries:    arena.New[ast.Binary](nodeSlabSize, 0),
		unaries:     arena.New[ast.Unary](nodeSlabSize, 0),
		assignments: arena.New[ast.Assignment](nodeSlabSize, 0),
		varDecls:    arena.New[ast.VarDeclaration](nodeSlabSize, 0),
		exprStmts:   arena.New[ast.ExpressionStatement](nodeSlabSize, 0),
		returnStmts: arena.New[ast.ReturnStatement](nodeSlabSize, 0),
		programs:    arena.New[ast.Program](1, 0),
		bads:        arena.New[ast.Bad](nodeSlabSize, 0),
	}
}

func (a *nodeArena) literal(pos token.Position, lit ast.Literal) (*ast.Literal, error) {
	lit.Position = pos
	return a.literals.New(lit)
}

func (a *nodeArena) identifier(pos token.Position, name string) (*ast.Identifier, error) {
	return a.identifiers.New(ast.Identifier{Position: pos, Name: name})
}

func (a *nodeArena) binary(pos token.Position, left ast.Node, op token.Kind, right ast.Node) (*ast.Binary, error) {
	return a.binaries.New(ast.Binary{Position: pos, Left: left, Op: op, Right: right})
}

func (a *nodeArena) unary(pos token.Position, op token.Kind, operand ast.Node) (*ast.Unary, error) {
	return a.unaries.New(ast.Unary{Position: pos, Op: op, Operand: operand})
}

func (a *nodeArena) assignment(pos token.Position, target *ast.Identifier, value ast.Node) (*ast.Assignment, error) {
	return a.assignments.New(ast.Assignment{Position: pos, Target: target, Value: value})
}

func (a *nodeArena) varDecl(pos token.Position, declType token.Kind, name string, initializer ast.Node) (*ast.VarDeclaration, error) {
	return a.varDecls.New(ast.VarDeclaration{Position: pos, DeclaredType: declType, Name: name, Initializer: initializer})
}

func (a *nodeArena) exprStmt(pos token.Position, expr ast.Node) (*ast.ExpressionStatement, error) {
	return a.exprStmts.New(ast.ExpressionStatement{Position: pos, Expr: expr})
}

func (a *nodeArena) returnStmt(pos token.Position, value ast.Node) (*ast.ReturnStatement, error) {
	return a.returnStmts.New(ast.ReturnStatement{Position: pos, Value: value})
}

func (a *nodeArena) program(pos token.Position) (*ast.Program, error) {
	return a.programs.New(ast.Program{Position: pos})
}

func (a *nodeArena) badNode(pos token.Position, message string) (*ast.Bad, error) {
	return a.bads.New(ast.Bad{Position: pos, Message: message})
}
