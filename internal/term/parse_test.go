package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	prefixes := DefaultPrefixes().With(Prefixes{"ex": "http://example.org/"})

	testCases := []struct {
		in   string
		want Node
	}{
		{"?s", Variable{Name: "s"}},
		{"$row", Variable{Name: "row"}},
		{"_:b1", Blank{Label: "b1"}},
		{"<http://example.org/T>", NamedEntity{IRI: "http://example.org/T"}},
		{"ex:Table1", NamedEntity{IRI: "http://example.org/Table1"}},
		{"rdf:_1", NamedEntity{IRI: RDFNamespace + "_1"}},
		{"xyz:name", NamedEntity{IRI: DataNamespace + "name"}},
		{"fx:root", NamedEntity{IRI: FXRoot}},
		{"a", NamedEntity{IRI: RDFType}},
		{`"hello"`, Literal{Lexical: "hello"}},
		{`"hola"@ES`, Literal{Lexical: "hola", Lang: "es"}},
		{`"5"^^xsd:int`, Literal{Lexical: "5", Datatype: XSDNamespace + "int"}},
		{`"5"^^<http://example.org/dt>`, Literal{Lexical: "5", Datatype: "http://example.org/dt"}},
		{`"x"^^xsd:string`, Literal{Lexical: "x"}},
		{`"say \"hi\""`, Literal{Lexical: `say "hi"`}},
		{"42", Literal{Lexical: "42", Datatype: XSDInteger}},
		{"-7", Literal{Lexical: "-7", Datatype: XSDInteger}},
		{"true", Literal{Lexical: "true", Datatype: XSDBoolean}},
		{"  ?padded  ", Variable{Name: "padded"}},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTerm(tc.in, prefixes)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTerm_Errors(t *testing.T) {
	testCases := []struct {
		in      string
		message string
	}{
		{"", "empty term"},
		{"?", "invalid variable"},
		{"_:", "invalid blank"},
		{"<http://ex/a", "malformed IRI"},
		{"<>", "malformed IRI"},
		{"nope:x", "undeclared prefix"},
		{"bare", "unrecognized term"},
		{`"open`, "malformed literal"},
		{`"x"@`, "invalid language tag"},
		{`"x"^^nope:t`, "undeclared prefix"},
		{`"x"junk`, "unexpected"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParseTerm(tc.in, DefaultPrefixes())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern([][3]string{
		{"?x", "rdf:_1", "?row"},
		{"?row", "xyz:colA", "?v"},
	}, DefaultPrefixes())
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, Variable{Name: "row"}, p[0].Object)
	assert.Equal(t, NamedEntity{IRI: DataNamespace + "colA"}, p[1].Predicate)
}

func TestParsePattern_ReportsPosition(t *testing.T) {
	_, err := ParsePattern([][3]string{
		{"?x", "rdf:_1", "?row"},
		{"?row", "bad:colA", "?v"},
	}, DefaultPrefixes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "triple 1")
	assert.Contains(t, err.Error(), "predicate")
}

func TestPrefixes_WithOverrides(t *testing.T) {
	base := DefaultPrefixes()
	merged := base.With(Prefixes{"xyz": "http://other/"})
	assert.Equal(t, "http://other/", merged["xyz"])
	assert.Equal(t, DataNamespace, base["xyz"], "base must not be mutated")
}
