package astprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandaadir05/shaynefro-compiler/internal/lexer"
	"github.com/pandaadir05/shaynefro-compiler/internal/parser"
)

func TestSprintProgramContainsDeclaration(t *testing.T) {
	lx, err := lexer.New("int x = 42;", "t")
	require.NoError(t, err)

	p := parser.New(lx)
	prog := p.Parse()
	require.False(t, p.HasError())

	out := SprintProgram(prog)
	assert.Contains(t, out, "VarDeclaration")
	assert.Contains(t, out, "x")
}

func TestSprintSingleNode(t *testing.T) {
	lx, err := lexer.New("return 1 + 2;", "t")
	require.NoError(t, err)

	p := parser.New(lx)
	prog := p.Parse()
	require.False(t, p.HasError())
	require.Len(t, prog.Statements, 1)

	out := Sprint(prog.Statements[0])
	assert.Contains(t, out, "ReturnStatement")
	assert.Contains(t, out, "Binary")
}
