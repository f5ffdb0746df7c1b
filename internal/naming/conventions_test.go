package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fxbgp/internal/config"
	"github.com/roach88/fxbgp/internal/fxerr"
	"github.com/roach88/fxbgp/internal/infer"
	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/schema"
	"github.com/roach88/fxbgp/internal/term"
)

const xyz = term.DataNamespace

func TestConventions_Defaults(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, term.FXRoot, c.RootType())
	assert.Equal(t, term.DataNamespace, c.Namespace())
	assert.True(t, c.Permissive())
	assert.True(t, c.IsTypePredicate(term.RDFType))
	assert.False(t, c.IsTypePredicate(xyz+"type"))
}

func TestConventions_RowIndex(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)

	testCases := []struct {
		iri  string
		want bool
	}{
		{term.RDFNamespace + "_1", true},
		{term.RDFNamespace + "_42", true},
		{term.RDFNamespace + "_0", false},
		{term.RDFNamespace + "_01", false},
		{term.RDFNamespace + "_", false},
		{term.RDFNamespace + "_1a", false},
		{term.RDFNamespace + "type", false},
		{xyz + "_1", false},
	}

	for _, tc := range testCases {
		t.Run(tc.iri, func(t *testing.T) {
			assert.Equal(t, tc.want, c.IsRowIndexPredicate(tc.iri))
		})
	}
}

func TestConventions_Permissive(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)

	assert.True(t, c.IsTableEntity(xyz+"people"))
	assert.True(t, c.IsColumnPredicate(xyz+"name"))
	assert.False(t, c.IsTableEntity(xyz+"_3"), "row-shaped local names are never tables")
	assert.False(t, c.IsColumnPredicate(xyz+"_3"))
	assert.False(t, c.IsTableEntity(xyz), "empty local name")
	assert.False(t, c.IsTableEntity(xyz+"a/b"))
	assert.False(t, c.IsTableEntity("http://example.org/people"))
	assert.False(t, c.IsColumnPredicate(term.RDFNamespace+"_1"))
}

func TestConventions_KnownTables(t *testing.T) {
	c, err := New(Options{
		Tables: map[string][]string{
			"people": {"name", "age"},
			"orders": {"total"},
		},
	})
	require.NoError(t, err)

	assert.False(t, c.Permissive())
	assert.Equal(t, []string{"orders", "people"}, c.Tables())
	assert.True(t, c.IsTableEntity(xyz+"people"))
	assert.False(t, c.IsTableEntity(xyz+"cats"))
	assert.True(t, c.IsColumnPredicate(xyz+"total"))
	assert.False(t, c.IsColumnPredicate(xyz+"colour"))
}

func TestConventions_CustomNamespace(t *testing.T) {
	c, err := New(Options{
		Namespace:      "http://example.org/",
		RowIndexPrefix: "http://example.org/row/",
		TypePredicates: []string{"http://example.org/kind"},
		RootType:       "http://example.org/Root",
	})
	require.NoError(t, err)

	assert.True(t, c.IsTableEntity("http://example.org/Table1"))
	assert.True(t, c.IsRowIndexPredicate("http://example.org/row/7"))
	assert.True(t, c.IsTypePredicate("http://example.org/kind"))
	assert.False(t, c.IsTypePredicate(term.RDFType))
	assert.Equal(t, "http://example.org/Root", c.RootType())
}

func TestConventions_NFC(t *testing.T) {
	// "café" with a precomposed é versus e + combining acute accent.
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	c, err := New(Options{Tables: map[string][]string{composed: {decomposed}}})
	require.NoError(t, err)

	assert.True(t, c.IsTableEntity(xyz+decomposed))
	assert.True(t, c.IsTableEntity(xyz+composed))
	assert.True(t, c.IsColumnPredicate(xyz+composed))
}

func TestConventions_RootTypeNFC(t *testing.T) {
	c, err := New(Options{RootType: "http://example.org/Racin\u00e9"})
	require.NoError(t, err)

	assert.True(t, c.IsRootType("http://example.org/Racin\u00e9"))
	assert.True(t, c.IsRootType("http://example.org/Racine\u0301"))
	assert.False(t, c.IsRootType("http://example.org/Racine"))
	assert.False(t, c.IsRootType(term.FXRoot))
}

func TestConventions_DecomposedRootMarksRoot(t *testing.T) {
	c, err := New(Options{RootType: "http://example.org/Racin\u00e9"})
	require.NoError(t, err)

	p := term.Pattern{{
		Subject:   term.Variable{Name: "root"},
		Predicate: term.NamedEntity{IRI: term.RDFType},
		Object:    term.NamedEntity{IRI: "http://example.org/Racine\u0301"},
	}}
	res, err := infer.Infer(p, c)
	require.NoError(t, err)

	got, ok := res.Assignment.Role(term.NamedEntity{IRI: "http://example.org/Racine\u0301"})
	require.True(t, ok)
	assert.Equal(t, role.FXRoot, got)
}

func TestNew_InvalidOptions(t *testing.T) {
	testCases := []struct {
		name string
		opts Options
	}{
		{"row-shaped table", Options{Tables: map[string][]string{"_1": nil}}},
		{"table with slash", Options{Tables: map[string][]string{"a/b": nil}}},
		{"empty column", Options{Tables: map[string][]string{"t": {""}}}},
		{"namespace equals row prefix", Options{Namespace: "http://x/", RowIndexPrefix: "http://x/"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts)
			require.Error(t, err)
			assert.True(t, fxerr.HasCode(err, fxerr.CodeNamingOptionsInvalid))
		})
	}
}

func TestFromSchema(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{
		{Name: "people", Columns: []schema.Column{{Name: "name"}, {Name: "age"}}},
	}}

	c, err := FromSchema(s, Options{Tables: map[string][]string{"extra": {"note"}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"extra", "people"}, c.Tables())
	assert.True(t, c.IsColumnPredicate(xyz+"age"))
	assert.True(t, c.IsColumnPredicate(xyz+"note"))
	assert.False(t, c.IsColumnPredicate(xyz+"email"))
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Naming.Tables = []config.TableConfig{{Name: "People", Columns: []string{"Name"}}}

	c, err := FromConfig(cfg.Naming, nil)
	require.NoError(t, err)
	assert.True(t, c.IsTableEntity(xyz+"People"))
	assert.False(t, c.IsTableEntity(xyz+"people"), "names are case sensitive")

	withSchema, err := FromConfig(cfg.Naming, &schema.Schema{Tables: []schema.Table{{Name: "orders"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"People", "orders"}, withSchema.Tables())
}
