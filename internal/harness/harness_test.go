package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/term"
)

const scenariosDir = "../../testdata/scenarios"

func intPtr(i int) *int { return &i }

func TestRun_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios(scenariosDir)
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_Success(t *testing.T) {
	s := &Scenario{
		Name:    "row",
		Triples: [][3]string{{"?x", "rdf:_1", "?row"}},
		Expect: Expect{
			Roles: map[string]string{"?x": "ContainerTable", "?row": "ContainerRow"},
			Stats: &ExpectStats{Passes: 3, Proposals: 9, Changes: 4},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.NotNil(t, result.Outcome)
	assert.Nil(t, result.Contradiction)

	got, ok := result.Outcome.Assignment.Role(term.NamedEntity{IRI: term.RDFNamespace + "_1"})
	require.True(t, ok)
	assert.Equal(t, role.SlotRow, got)
}

func TestRun_RoleMismatch(t *testing.T) {
	s := &Scenario{
		Name:    "mismatch",
		Triples: [][3]string{{"?x", "rdf:_1", "?row"}},
		Expect: Expect{
			Roles: map[string]string{
				"?x":       "ContainerRow",
				"?missing": "Subject",
			},
			Stats: &ExpectStats{Passes: 1},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"roles[?missing]: expected Subject, got no role (node not in pattern)",
		"roles[?x]: expected ContainerRow, got ContainerTable",
		"stats: expected passes=1 proposals=0 changes=0, got passes=3 proposals=9 changes=4",
	}, result.Errors)
}

func TestRun_UnexpectedContradiction(t *testing.T) {
	s := &Scenario{
		Name:    "unexpected",
		Triples: [][3]string{{`"lit"`, "?p", "?o"}},
		Expect:  Expect{Roles: map[string]string{"?o": "Object"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "outcome: expected a solution, got unrecognized-entity")
	require.NotNil(t, result.Contradiction)
	assert.Nil(t, result.Outcome)
}

func TestRun_ExpectedContradiction(t *testing.T) {
	base := Scenario{
		Name:        "conflict",
		Prefixes:    map[string]string{"ex": "http://example.org/"},
		Conventions: Conventions{Namespace: "http://example.org/"},
		Triples: [][3]string{
			{"ex:Row5", "ex:col1", `"hello"`},
			{"?t", "rdf:_1", "ex:Row5"},
		},
	}

	testCases := []struct {
		name   string
		expect ExpectContradiction
		errors []string
	}{
		{
			name:   "match",
			expect: ExpectContradiction{Kind: "type-conflict", Node: "ex:Row5", Triple: intPtr(1), Position: "object"},
		},
		{
			name:   "kind only",
			expect: ExpectContradiction{Kind: "type-conflict"},
		},
		{
			name:   "wrong details",
			expect: ExpectContradiction{Kind: "unrecognized-entity", Node: "?t", Triple: intPtr(0), Position: "subject"},
			errors: []string{
				"contradiction.kind: expected unrecognized-entity, got type-conflict",
				"contradiction.node: expected ?t, got <http://example.org/Row5>",
				"contradiction.triple: expected 0, got 1",
				"contradiction.position: expected subject, got object",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			expect := tc.expect
			s.Expect = Expect{Contradiction: &expect}

			result, err := Run(&s)
			require.NoError(t, err)
			if tc.errors == nil {
				assert.True(t, result.Pass, "errors: %v", result.Errors)
				return
			}
			assert.False(t, result.Pass)
			assert.Equal(t, tc.errors, result.Errors)
		})
	}
}

func TestRun_MissingContradiction(t *testing.T) {
	s := &Scenario{
		Name:    "solvable",
		Triples: [][3]string{{"?s", "?p", "?o"}},
		Expect:  Expect{Contradiction: &ExpectContradiction{Kind: "type-conflict"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"outcome: expected a type-conflict contradiction, got a solution"}, result.Errors)
}

func TestRun_StrictSubjects(t *testing.T) {
	s := &Scenario{
		Name:     "strict",
		Prefixes: map[string]string{"ex": "http://example.org/"},
		Conventions: Conventions{
			Namespace:      "http://example.org/",
			Tables:         map[string][]string{"Table1": {"colA"}},
			StrictSubjects: true,
		},
		Triples: [][3]string{{"ex:Table1", "ex:colA", "?v"}},
		Expect: Expect{Roles: map[string]string{
			"ex:Table1": "ContainerTable",
			"ex:colA":   "SlotColumn",
			"?v":        "SlotValue",
		}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_SetupErrors(t *testing.T) {
	testCases := []struct {
		name     string
		scenario Scenario
		wantErr  string
	}{
		{
			name:     "unknown prefix",
			scenario: Scenario{Name: "t", Triples: [][3]string{{"?s", "nope:p", "?o"}}},
			wantErr:  "failed to parse triples",
		},
		{
			name: "invalid conventions",
			scenario: Scenario{
				Name:        "t",
				Conventions: Conventions{Namespace: term.RDFNamespace + "_"},
				Triples:     [][3]string{{"?s", "?p", "?o"}},
			},
			wantErr: "failed to build conventions",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(&tc.scenario)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
