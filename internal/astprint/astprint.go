// Package astprint renders an AST node as a readable recursive tree, replacing the
// ad hoc "%+v" dumps the teacher package otherwise relies on for debugging. It backs
// the CLI's interactive AST dump and lets tests assert on tree shape without hand
// rolling their own tree walker.
package astprint

import (
	"github.com/alecthomas/repr"

	"github.com/pandaadir05/shaynefro-compiler/internal/ast"
)

// Indent is the per-level indentation string used for every rendered tree.
const Indent = "  "

// Sprint renders n as a multi-line, indented tree in Go-syntax-like form.
func Sprint(n ast.Node) string {
	return repr.String(n, repr.Indent(Indent))
}

// SprintProgram renders the full statement tree of prog.
func SprintProgram(prog *ast.Program) string {
	return repr.String(prog, repr.Indent(Indent))
}
