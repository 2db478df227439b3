// Package ast defines the abstract syntax tree produced by the parser. Every node
// is a tagged union member: a Go struct type implementing Node, pattern-matched by
// the parser and emitter via type switches rather than virtual dispatch. The tree
// is strictly acyclic -- children are always constructed before the parent node
// that holds them, since the parser builds bottom-up during its recursive descent.
package ast

import "github.com/pandaadir05/shaynefro-compiler/internal/token"

// Node is implemented by every AST node. Pos returns the source position recorded
// when the node was constructed.
type Node interface {
	Pos() token.Position
	node()
}

// LiteralKind distinguishes the payload carried by a Literal node.
type LiteralKind int

const (
	IntegerLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
	NullLiteral
)

// Literal is a constant value: an integer, float, string, boolean, or null.
type Literal struct {
	Position token.Position
	Kind     LiteralKind

	IntValue    int64
	FloatValue  float64
	StringValue string
	BoolValue   bool
}

func (n *Literal) Pos() token.Position { return n.Position }
func (*Literal) node()                 {}

// Identifier names a variable, function, or type.
type Identifier struct {
	Position token.Position
	Name     string
}

func (n *Identifier) Pos() token.Position { return n.Position }
func (*Identifier) node()                 {}

// Binary is a binary operator expression; Op is the operator's token kind (e.g.
// token.PLUS, token.AND_AND, token.LT).
type Binary struct {
	Position token.Position
	Left     Node
	Op       token.Kind
	Right    Node
}

func (n *Binary) Pos() token.Position { return n.Position }
func (*Binary) node()                 {}

// Unary is a prefix operator expression (token.BANG or token.MINUS).
type Unary struct {
	Position token.Position
	Op       token.Kind
	Operand  Node
}

func (n *Unary) Pos() token.Position { return n.Position }
func (*Unary) node()                 {}

// Assignment is a right-associative "target = value" expression. Target is always
// an *Identifier; the parser rejects any other assignment target.
type Assignment struct {
	Position token.Position
	Target   *Identifier
	Value    Node
}

func (n *Assignment) Pos() token.Position { return n.Position }
func (*Assignment) node()                 {}

// VarDeclaration is a "type name (= initializer)? ;" statement.
type VarDeclaration struct {
	Position     token.Position
	DeclaredType token.Kind
	Name         string
	Initializer  Node // nil if absent
}

func (n *VarDeclaration) Pos() token.Position { return n.Position }
func (*VarDeclaration) node()                 {}

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	Position token.Position
	Expr     Node
}

func (n *ExpressionStatement) Pos() token.Position { return n.Position }
func (*ExpressionStatement) node()                 {}

// ReturnStatement is a "return expr? ;" statement.
type ReturnStatement struct {
	Position token.Position
	Value    Node // nil if the return has no operand
}

func (n *ReturnStatement) Pos() token.Position { return n.Position }
func (*ReturnStatement) node()                 {}

// Program is the root node: the ordered list of top-level statements produced
// before EOF, possibly partial if parse errors occurred.
type Program struct {
	Position   token.Position
	Statements []Node
}

func (n *Program) Pos() token.Position { return n.Position }
func (*Program) node()                 {}

// Bad marks a location where the parser could not construct a well-formed node; it
// lets panic-mode recovery return a partial tree instead of aborting the parse.
type Bad struct {
	Position token.Position
	Message  string
}

func (n *Bad) Pos() token.Position { return n.Position }
func (*Bad) node()                 {}

// The following node kinds are declared to reserve the design space for later
// phases (function, class, and control-flow constructs) but are never constructed
// by this parser; see the specification's §3 for the rationale.

// FuncDecl is a function declaration: "function name(params) { body }".
type FuncDecl struct {
	Position token.Position
	Name     string
	Params   []string
	Body     []Node
}

func (n *FuncDecl) Pos() token.Position { return n.Position }
func (*FuncDecl) node()                 {}

// ClassDecl is a class declaration with an optional base class.
type ClassDecl struct {
	Position token.Position
	Name     string
	Extends  string
	Members  []Node
}

func (n *ClassDecl) Pos() token.Position { return n.Position }
func (*ClassDecl) node()                 {}

// IfStmt is a conditional statement with an optional else branch.
type IfStmt struct {
	Position token.Position
	Cond     Node
	Then     []Node
	Else     []Node
}

func (n *IfStmt) Pos() token.Position { return n.Position }
func (*IfStmt) node()                 {}

// WhileStmt is a condition-first loop.
type WhileStmt struct {
	Position token.Position
	Cond     Node
	Body     []Node
}

func (n *WhileStmt) Pos() token.Position { return n.Position }
func (*WhileStmt) node()                 {}

// ForStmt is a three-clause C-style loop.
type ForStmt struct {
	Position token.Position
	Init     Node
	Cond     Node
	Post     Node
	Body     []Node
}

func (n *ForStmt) Pos() token.Position { return n.Position }
func (*ForStmt) node()                 {}

// Block is a brace-delimited statement list used as a nested scope.
type Block struct {
	Position   token.Position
	Statements []Node
}

func (n *Block) Pos() token.Position { return n.Position }
func (*Block) node()                 {}

// Call is a function-call expression.
type Call struct {
	Position token.Position
	Callee   Node
	Args     []Node
}

func (n *Call) Pos() token.Position { return n.Position }
func (*Call) node()                 {}
