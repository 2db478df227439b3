// Package emitter renders a Program AST as source text in a target language. Only
// the OutputC format is implemented; the others are recognized but always fail with
// a structured ErrUnsupportedFormat, mirroring the recursive-descent core's own
// "unimplemented is a typed failure, not a missing symbol" stance.
//
// The walk itself follows the same recursive, type-switched load pattern the
// teacher's LLVM IR builder used (value, instructions := recursiveLoad(expr)): here
// each AST node lowers to a single parenthesized C expression string instead of a
// list of IR instructions, since the target is text rather than SSA.
package emitter

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/pandaadir05/shaynefro-compiler/internal/ast"
	"github.com/pandaadir05/shaynefro-compiler/internal/token"
)

// OutputFormat selects the emitter's target language. Only OutputC is implemented.
type OutputFormat int

const (
	OutputC OutputFormat = iota
	OutputJS
	OutputPython
	OutputBytecode
)

func (f OutputFormat) String() string {
	switch f {
	case OutputC:
		return "C"
	case OutputJS:
		return "JS"
	case OutputPython:
		return "Python"
	case OutputBytecode:
		return "Bytecode"
	default:
		return fmt.Sprintf("OutputFormat(%d)", int(f))
	}
}

// ErrUnsupportedFormat is returned by Emit for any format other than OutputC. It
// carries the requested format so callers can report it without string matching.
type ErrUnsupportedFormat struct {
	Format OutputFormat
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("emitter: unsupported output format %s", e.Format)
}

// cTypeNames maps a source declaration keyword to its C target type.
var cTypeNames = map[token.Kind]string{
	token.INT:       "int",
	token.FLOAT_KW:  "double",
	token.STRING_KW: "char*",
	token.BOOL_KW:   "bool",
}

var cPrologue = []string{
	"#include <stdio.h>",
	"#include <stdlib.h>",
	"#include <string.h>",
	"#include <stdbool.h>",
}

// Emitter lowers a Program to target source text. Not safe for concurrent use; each
// call to Emit is independent and shares no state with another.
type Emitter struct {
	hasError bool
	errMsg   string
}

// New creates an Emitter.
func New() *Emitter {
	return &Emitter{}
}

// HasError reports whether the most recent Emit call recorded an error.
func (e *Emitter) HasError() bool {
	return e.hasError
}

// ErrorMessage returns the first error recorded by the most recent Emit call, or ""
// if none occurred.
func (e *Emitter) ErrorMessage() string {
	return e.errMsg
}

// Emit renders prog in the given format. Only OutputC succeeds; every other format
// returns *ErrUnsupportedFormat wrapped with github.com/pkg/errors context.
func (e *Emitter) Emit(prog *ast.Program, format OutputFormat) (out string, err error) {
	e.hasError = false
	e.errMsg = ""

	if format != OutputC {
		err := errors.Wrapf(&ErrUnsupportedFormat{Format: format}, "emit")
		e.latchError(err.Error())
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			e.latchError(fmt.Sprintf("internal error: %v", r))
			err = errors.New(e.errMsg)
		}
	}()

	var buf bytes.Buffer
	for _, line := range cPrologue {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	buf.WriteString("\nint main() {\n")

	for _, stmt := range prog.Statements {
		rendered := e.statement(stmt)
		if e.hasError {
			return "", errors.New(e.errMsg)
		}

		buf.WriteString("    ")
		buf.WriteString(rendered)
		buf.WriteByte('\n')
	}

	buf.WriteString("    return 0;\n}\n")

	return buf.String(), nil
}

func (e *Emitter) latchError(msg string) {
	if !e.hasError {
		e.hasError = true
		e.errMsg = msg
	}
}

func (e *Emitter) statement(n ast.Node) string {
	switch s := n.(type) {
	case *ast.VarDeclaration:
		return e.varDeclaration(s)
	case *ast.ReturnStatement:
		return e.returnStatement(s)
	case *ast.ExpressionStatement:
		return e.expression(s.Expr) + ";"
	case *ast.Bad:
		e.latchError(fmt.Sprintf("cannot emit recovered error node at %s: %s", s.Pos(), s.Message))
		return ""
	default:
		panic(fmt.Sprintf("emitter: unhandled statement kind %T", n))
	}
}

func (e *Emitter) varDeclaration(s *ast.VarDeclaration) string {
	cType, ok := cTypeNames[s.DeclaredType]
	if !ok {
		e.latchError(fmt.Sprintf("no C target type for declared type %s at %s", s.DeclaredType, s.Pos()))
		return ""
	}

	if s.Initializer == nil {
		return fmt.Sprintf("%s %s;", cType, s.Name)
	}

	return fmt.Sprintf("%s %s = %s;", cType, s.Name, e.expression(s.Initializer))
}

func (e *Emitter) returnStatement(s *ast.ReturnStatement) string {
	if s.Value == nil {
		return "return;"
	}

	return fmt.Sprintf("return %s;", e.expression(s.Value))
}

// expression lowers an expression node to a fully parenthesized C expression string.
func (e *Emitter) expression(n ast.Node) string {
	switch expr := n.(type) {
	case *ast.Literal:
		return e.literal(expr)
	case *ast.Identifier:
		return expr.Name
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", e.expression(expr.Left), binaryOpText(expr.Op), e.expression(expr.Right))
	case *ast.Unary:
		return fmt.Sprintf("(%s%s)", unaryOpText(expr.Op), e.expression(expr.Operand))
	case *ast.Assignment:
		return fmt.Sprintf("(%s = %s)", expr.Target.Name, e.expression(expr.Value))
	case *ast.Bad:
		e.latchError(fmt.Sprintf("cannot emit recovered error node at %s: %s", expr.Pos(), expr.Message))
		return ""
	default:
		panic(fmt.Sprintf("emitter: unhandled expression kind %T", n))
	}
}

func (e *Emitter) literal(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.IntegerLiteral:
		return fmt.Sprintf("%d", lit.IntValue)
	case ast.FloatLiteral:
		return fmt.Sprintf("%g", lit.FloatValue)
	case ast.StringLiteral:
		return fmt.Sprintf("%q", lit.StringValue)
	case ast.BoolLiteral:
		if lit.BoolValue {
			return "true"
		}
		return "false"
	case ast.NullLiteral:
		return "NULL"
	default:
		panic(fmt.Sprintf("emitter: unhandled literal kind %d", lit.Kind))
	}
}

func binaryOpText(k token.Kind) string {
	if text, ok := cOperatorText[k]; ok {
		return text
	}

	return k.String()
}

func unaryOpText(k token.Kind) string {
	if text, ok := cOperatorText[k]; ok {
		return text
	}

	return k.String()
}

// cOperatorText gives the C spelling of a handful of operators; each entry matches
// token.Kind's own String(), and every operator not listed here renders via
// Kind.String() (e.g. "+", "-").
var cOperatorText = map[token.Kind]string{
	token.AND_AND: "&&",
	token.OR_OR:   "||",
	token.BANG:    "!",
}
