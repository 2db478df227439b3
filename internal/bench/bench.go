// Package bench drives the CLI's "-b" benchmark mode: N independent lex+parse runs
// fanned out over goroutines. This is the one place in the module where the
// teacher's concurrency pattern from pkg/compiler.go (an errgroup.Group coordinating
// independent workers) is kept -- repurposed from piping LLVM IR into clang to
// running independent Lexer/Parser pairs, each with its own arena, sharing no state.
package bench

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/pandaadir05/shaynefro-compiler/internal/lexer"
	"github.com/pandaadir05/shaynefro-compiler/internal/parser"
	gen "github.com/pandaadir05/shaynefro-compiler/internal/test"
)

// Case describes one benchmark run: a source of the given token count, repeated
// Repeat times.
type Case struct {
	Name   string `yaml:"name"`
	Tokens int    `yaml:"tokens"`
	Repeat int    `yaml:"repeat"`
}

// Config is the optional "-bench-config <path>.yaml" file format: a named list of
// Cases to run instead of the built-in default set.
type Config struct {
	Cases []Case `yaml:"cases"`
}

// LoadConfig parses a YAML benchmark configuration from raw bytes.
func LoadConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "bench: parsing config")
	}

	return &cfg, nil
}

// DefaultCases is used when no "-bench-config" file is supplied.
var DefaultCases = []Case{
	{Name: "small", Tokens: 50, Repeat: 200},
	{Name: "medium", Tokens: 500, Repeat: 50},
	{Name: "large", Tokens: 5000, Repeat: 5},
}

// Result is one Case's outcome: how long the whole fan-out of Repeat runs took, and
// how many runs produced a parse error (a malformed random token stream is expected
// to hit at least one, since the generator does not produce grammatically valid
// source).
type Result struct {
	Case        Case
	Elapsed     time.Duration
	ErrCount    int
	TokensLexed int
}

// Run executes every case in cases concurrently across an errgroup, one worker per
// case, and returns their results in the same order. Lex and parse errors are only
// counted in ErrCount. If a worker fails to construct its lexer, Run waits for every
// worker to finish and returns the first such error and no results.
func Run(cases []Case) ([]Result, error) {
	if len(cases) == 0 {
		cases = DefaultCases
	}

	results := make([]Result, len(cases))

	var g errgroup.Group
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			r, err := runCase(c)
			if err != nil {
				return errors.Wrapf(err, "bench: case %q", c.Name)
			}

			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func runCase(c Case) (Result, error) {
	start := time.Now()

	errCount := 0
	tokensLexed := 0
	for i := 0; i < c.Repeat; i++ {
		src := gen.GetRandomTokens(c.Tokens)

		lx, err := lexer.New(src, "bench")
		if err != nil {
			return Result{}, errors.Wrap(err, "constructing lexer")
		}

		p := parser.New(lx)
		p.Parse()
		if p.HasError() {
			errCount++
		}

		tokensLexed += lx.TokensEmitted()
	}

	return Result{Case: c, Elapsed: time.Since(start), ErrCount: errCount, TokensLexed: tokensLexed}, nil
}
