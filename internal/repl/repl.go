// Package repl implements the "-i" interactive mode: a read-eval-print loop that
// lexes and parses each line the user types and dumps both the token stream and the
// resulting AST.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pandaadir05/shaynefro-compiler/internal/astprint"
	"github.com/pandaadir05/shaynefro-compiler/internal/lexer"
	"github.com/pandaadir05/shaynefro-compiler/internal/parser"
	"github.com/pandaadir05/shaynefro-compiler/internal/token"
)

const prompt = "shay> "

// Run reads lines from in until EOF, lexing and parsing each one and writing a
// token dump followed by an AST dump to out.
func Run(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		dumpLine(out, line)
	}
}

func dumpLine(out io.Writer, line string) {
	lx, err := lexer.New(line, "<repl>")
	if err != nil {
		fmt.Fprintf(out, "lex error: %s\n", err)
		return
	}

	fmt.Fprintln(out, "tokens:")
	toks := collectTokens(lx)
	for _, tok := range toks {
		fmt.Fprintf(out, "  %-12s %-16q %s\n", tok.Kind, tok.Lexeme, tok.Pos)
	}

	if lx.HasError() {
		fmt.Fprintf(out, "lex error: %s\n", lx.ErrorMessage())
	}

	lx2, err := lexer.New(line, "<repl>")
	if err != nil {
		fmt.Fprintf(out, "lex error: %s\n", err)
		return
	}

	p := parser.New(lx2)
	prog := p.Parse()

	fmt.Fprintln(out, "ast:")
	fmt.Fprintln(out, astprint.SprintProgram(prog))

	if p.HasError() {
		fmt.Fprintf(out, "parse error: %s\n", p.ErrorMessage())
	}
}

func collectTokens(lx *lexer.Lexer) []token.Token {
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF || tok.Kind == token.ERROR {
			break
		}
	}

	return toks
}
