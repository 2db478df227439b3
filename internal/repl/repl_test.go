package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunDumpsTokensAndAST(t *testing.T) {
	in := strings.NewReader("int x = 1;\n")
	var out bytes.Buffer

	Run(in, &out)

	output := out.String()
	assert.Contains(t, output, "tokens:")
	assert.Contains(t, output, "ast:")
	assert.Contains(t, output, "IDENTIFIER")
	assert.Contains(t, output, "VarDeclaration")
}

func TestRunStopsAtEOF(t *testing.T) {
	in := strings.NewReader("")
	var out bytes.Buffer

	Run(in, &out)
	assert.Contains(t, out.String(), prompt)
}

func TestRunSkipsEmptyLines(t *testing.T) {
	in := strings.NewReader("\n\nreturn 1;\n")
	var out bytes.Buffer

	Run(in, &out)
	assert.Contains(t, out.String(), "ReturnStatement")
}
