package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pandaadir05/shaynefro-compiler/internal/token"
)

// TestLexerIsDeterministic checks that tokenizing the same source twice, from two
// independent Lexer instances, produces an identical token stream -- the lexer holds
// no hidden global state that could make two runs diverge. go-cmp gives a readable
// diff the moment this invariant regresses, instead of a bare assert.Equal failure.
func TestLexerIsDeterministic(t *testing.T) {
	const src = `
int x = 0xFF + 0b10;
float y = 1.5e-10;
string s = "hello\nworld";
return x + y;
`

	l1, err := New(src, "a.shay")
	require.NoError(t, err)
	l2, err := New(src, "a.shay")
	require.NoError(t, err)

	var toks1, toks2 []token.Token
	for {
		t1 := l1.Next()
		toks1 = append(toks1, t1)
		if t1.Kind == token.EOF || t1.Kind == token.ERROR {
			break
		}
	}
	for {
		t2 := l2.Next()
		toks2 = append(toks2, t2)
		if t2.Kind == token.EOF || t2.Kind == token.ERROR {
			break
		}
	}

	if diff := cmp.Diff(toks1, toks2, cmpTokenOpt()...); diff != "" {
		t.Fatalf("lexer is not deterministic (-first +second):\n%s", diff)
	}
}

func cmpTokenOpt() []cmp.Option {
	return []cmp.Option{
		cmp.Comparer(func(a, b *string) bool {
			if a == nil || b == nil {
				return a == b
			}
			return *a == *b
		}),
	}
}
