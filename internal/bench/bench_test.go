package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDefaultCasesProducesOneResultPerCase(t *testing.T) {
	results, err := Run(nil)
	require.NoError(t, err)
	require.Len(t, results, len(DefaultCases))

	for i, r := range results {
		assert.Equal(t, DefaultCases[i].Name, r.Case.Name)
		assert.GreaterOrEqual(t, r.Elapsed.Nanoseconds(), int64(0))
		assert.Greater(t, r.TokensLexed, 0)
	}
}

func TestRunCustomCases(t *testing.T) {
	cases := []Case{{Name: "tiny", Tokens: 5, Repeat: 3}}
	results, err := Run(cases)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tiny", results[0].Case.Name)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	raw := []byte(`
cases:
  - name: fast
    tokens: 10
    repeat: 2
  - name: slow
    tokens: 1000
    repeat: 1
`)

	cfg, err := LoadConfig(raw)
	require.NoError(t, err)
	require.Len(t, cfg.Cases, 2)
	assert.Equal(t, "fast", cfg.Cases[0].Name)
	assert.Equal(t, 1000, cfg.Cases[1].Tokens)
}

func TestLoadConfigInvalidYAMLFails(t *testing.T) {
	_, err := LoadConfig([]byte("cases: [this is not valid: yaml: ["))
	assert.Error(t, err)
}
