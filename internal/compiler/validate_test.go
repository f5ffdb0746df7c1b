package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fxbgp/internal/term"
)

func mustSpec(t *testing.T, name string, triples ...[3]string) *PatternSpec {
	t.Helper()
	p, err := term.ParsePattern(triples, term.DefaultPrefixes())
	require.NoError(t, err)
	return &PatternSpec{Name: name, Triples: triples, Pattern: p}
}

func TestValidateValid(t *testing.T) {
	spec := mustSpec(t, "rows", [3]string{"?x", "rdf:_1", "?row"})
	assert.Empty(t, Validate(spec))
}

func TestValidateEmpty(t *testing.T) {
	errs := Validate(&PatternSpec{Name: "empty"})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrPatternEmpty, errs[0].Code)
	assert.Equal(t, "[E101] triples: at least one triple is required", errs[0].Error())
}

func TestValidateDuplicateTriple(t *testing.T) {
	spec := mustSpec(t, "dup",
		[3]string{"?x", "rdf:_1", "?row"},
		[3]string{"?row", "xyz:a", "?v"},
		[3]string{"?x", "rdf:_1", "?row"},
	)

	errs := Validate(spec)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateTriple, errs[0].Code)
	assert.Equal(t, "triples[2]", errs[0].Field)
	assert.Contains(t, errs[0].Message, "duplicate of triples[0]")
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", "has space", "9lives", `"quoted"`} {
		t.Run(name, func(t *testing.T) {
			errs := Validate(mustSpec(t, name, [3]string{"?s", "?p", "?o"}))
			require.Len(t, errs, 1)
			assert.Equal(t, ErrPatternNameInvalid, errs[0].Code)
		})
	}
}

func TestValidateAllDuplicateNames(t *testing.T) {
	errs := ValidateAll([]*PatternSpec{
		mustSpec(t, "a", [3]string{"?s", "?p", "?o"}),
		mustSpec(t, "a", [3]string{"?s", "?q", "?o"}),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicatePattern, errs[0].Code)
}
