// Command shaylang is the CLI driver for the lexer, parser, and C emitter: no
// arguments runs a built-in test suite, -i opens an interactive token/AST dump
// loop, -b runs the benchmark harness, -c compiles an embedded sample, and -f
// compiles a source file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/pandaadir05/shaynefro-compiler/internal/bench"
	"github.com/pandaadir05/shaynefro-compiler/internal/emitter"
	"github.com/pandaadir05/shaynefro-compiler/internal/lexer"
	"github.com/pandaadir05/shaynefro-compiler/internal/parser"
	"github.com/pandaadir05/shaynefro-compiler/internal/repl"
)

const embeddedSample = `int x = 40 + 2;
float ratio = x / 2.5;
string label = "answer";
return x;
`

var builtinSuite = []string{
	"int x = 1;",
	"return 1 + 2 * 3;",
	"x = y = 1;",
	"int x 5;\nint y = 7;",
	`"unterminated`,
}

func main() {
	interactive := flag.Bool("i", false, "interactive token/AST dump mode")
	runBench := flag.Bool("b", false, "run the benchmark harness")
	benchConfig := flag.String("bench-config", "", "optional YAML file listing benchmark cases")
	compileSample := flag.Bool("c", false, "compile the embedded sample")
	sourcePath := flag.String("f", "", "compile the file at this path")
	flag.Parse()

	switch {
	case *interactive:
		repl.Run(os.Stdin, os.Stdout)
	case *runBench:
		runBenchmark(*benchConfig)
	case *compileSample:
		compileAndPrint(embeddedSample, "<embedded>")
	case *sourcePath != "":
		raw, err := os.ReadFile(*sourcePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", errors.Wrapf(err, "reading %s", *sourcePath))
			os.Exit(1)
		}
		compileAndPrint(string(raw), *sourcePath)
	default:
		runBuiltinSuite()
	}
}

// compileAndPrint lexes, parses, and emits C source for one input, printing
// whatever diagnostics or output result. It never exits the process; callers
// decide how to surface a failing compile.
func compileAndPrint(source, filename string) {
	lx, err := lexer.New(source, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errors.Wrapf(err, "constructing lexer for %s", filename))
		return
	}

	p := parser.New(lx)
	prog := p.Parse()
	if p.HasError() {
		fmt.Fprintf(os.Stderr, "parse error: %s\n", p.ErrorMessage())
		return
	}

	e := emitter.New()
	out, err := e.Emit(prog, emitter.OutputC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emit error: %s\n", err)
		return
	}

	fmt.Print(out)
}

func runBuiltinSuite() {
	for _, src := range builtinSuite {
		lx, err := lexer.New(src, "<suite>")
		if err != nil {
			fmt.Printf("%-40q lexer error: %s\n", src, err)
			continue
		}

		p := parser.New(lx)
		prog := p.Parse()

		status := "ok"
		if p.HasError() {
			status = p.ErrorMessage()
		}

		fmt.Printf("%-40q -> %d statement(s), %s\n", src, len(prog.Statements), status)
	}
}

func runBenchmark(configPath string) {
	cases := bench.DefaultCases

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", errors.Wrapf(err, "reading %s", configPath))
			os.Exit(1)
		}

		cfg, err := bench.LoadConfig(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}

		cases = cfg.Cases
	}

	results, err := bench.Run(cases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("%-10s tokens=%-6d repeat=%-4d elapsed=%-12s errors=%-4d lexed=%d\n",
			r.Case.Name, r.Case.Tokens, r.Case.Repeat, r.Elapsed, r.ErrCount, r.TokensLexed)
	}
}
