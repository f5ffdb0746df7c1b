package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/term"
)

func TestMerge_Rule(t *testing.T) {
	v := term.Variable{Name: "v"}

	testCases := []struct {
		name     string
		held     role.Role
		proposed role.Role
		changed  bool
		want     role.Role
		conflict bool
	}{
		{"equal", role.SlotValue, role.SlotValue, false, role.SlotValue, false},
		{"keep more specialized", role.ContainerRow, role.Subject, false, role.ContainerRow, false},
		{"replace with specialization", role.Object, role.TypeTable, true, role.TypeTable, false},
		{"inconsistent", role.ContainerTable, role.ContainerRow, false, role.ContainerTable, true},
		{"unrelated is deferred", role.Subject, role.Object, false, role.Subject, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newAssignment(term.Pattern{{Subject: v, Predicate: term.Variable{Name: "p"}, Object: v}})
			changed, c := a.merge(v, tc.held, site{})
			require.Nil(t, c)
			require.True(t, changed)

			changed, c = a.merge(v, tc.proposed, site{})
			assert.Equal(t, tc.changed, changed)
			if tc.conflict {
				require.NotNil(t, c)
				assert.Equal(t, TypeConflict, c.Kind)
				assert.Equal(t, tc.held, c.Held)
				assert.Equal(t, tc.proposed, c.Proposed)
			} else {
				assert.Nil(t, c)
			}

			got, ok := a.Role(v)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMerge_DeferredUnrelated(t *testing.T) {
	b := term.Variable{Name: "b"}

	testCases := []struct {
		name     string
		held     role.Role
		deferred role.Role
		refined  []role.Role
		want     role.Role
		conflict bool
	}{
		{"resolved by container row", role.Subject, role.Object, []role.Role{role.ContainerRow}, role.ContainerRow, false},
		{"resolved by container table", role.Object, role.Subject, []role.Role{role.ContainerTable}, role.ContainerTable, false},
		{"unresolved", role.Subject, role.Object, nil, role.Subject, true},
		{"refined away from the deferred role", role.Object, role.Subject, []role.Role{role.SlotValue}, role.SlotValue, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newAssignment(term.Pattern{{Subject: b, Predicate: term.Variable{Name: "p"}, Object: b}})
			_, c := a.merge(b, tc.held, site{triple: 0, position: "subject"})
			require.Nil(t, c)

			changed, c := a.merge(b, tc.deferred, site{triple: 1, position: "object"})
			require.Nil(t, c, "an unrelated proposal must not fail the merge")
			assert.False(t, changed)

			for _, r := range tc.refined {
				changed, c = a.merge(b, r, site{triple: 2, position: "object"})
				require.Nil(t, c)
				assert.True(t, changed)
			}

			got, _ := a.Role(b)
			assert.Equal(t, tc.want, got)

			c = a.unresolved()
			if !tc.conflict {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, TypeConflict, c.Kind)
			assert.Equal(t, b, c.Node)
			assert.Equal(t, tc.want, c.Held)
			assert.Equal(t, tc.deferred, c.Proposed)
			assert.Equal(t, 1, c.Triple, "reported where the unrelated proposal was made")
			assert.Equal(t, "object", c.Position)
		})
	}
}

func TestMerge_DeferredOnce(t *testing.T) {
	b := term.Variable{Name: "b"}
	a := newAssignment(term.Pattern{{Subject: b, Predicate: term.Variable{Name: "p"}, Object: b}})

	_, _ = a.merge(b, role.Subject, site{triple: 0, position: "subject"})
	_, _ = a.merge(b, role.Object, site{triple: 0, position: "object"})
	_, _ = a.merge(b, role.Object, site{triple: 3, position: "object"})

	require.Len(t, a.pending["?b"], 1)
	c := a.unresolved()
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Triple, "the first site is kept")
}

func TestMerge_Idempotent(t *testing.T) {
	for _, r := range role.All() {
		t.Run(r.String(), func(t *testing.T) {
			n := term.Blank{Label: "b"}
			a := newAssignment(nil)

			changed, c := a.merge(n, r, site{})
			require.Nil(t, c)
			assert.True(t, changed)

			changed, c = a.merge(n, r, site{})
			require.Nil(t, c)
			assert.False(t, changed)
			assert.Equal(t, 1, a.Len())
		})
	}
}

func TestAssignment_ReadOnlyViews(t *testing.T) {
	x := term.Variable{Name: "x"}
	p := term.NamedEntity{IRI: term.RDFNamespace + "_1"}
	row := term.Variable{Name: "row"}
	a := newAssignment(term.Pattern{{Subject: x, Predicate: p, Object: row}})

	_, _ = a.merge(row, role.ContainerRow, site{})
	_, _ = a.merge(x, role.ContainerTable, site{})

	assert.Equal(t, []string{"?x", "?row"}, a.Keys(), "keys follow the pattern, not merge order")
	assert.Equal(t, []Entry{
		{Node: x, Role: role.ContainerTable},
		{Node: row, Role: role.ContainerRow},
	}, a.Entries())

	m := a.Map()
	m["?x"] = role.Subject
	got, _ := a.Lookup("?x")
	assert.Equal(t, role.ContainerTable, got, "Map must return a copy")

	_, ok := a.Role(p)
	assert.False(t, ok)
}

func TestAssignment_NilSafe(t *testing.T) {
	var a *Assignment
	assert.Equal(t, 0, a.Len())
	assert.Nil(t, a.Keys())
	assert.Empty(t, a.Entries())
	assert.Empty(t, a.Map())
	_, ok := a.Lookup("?x")
	assert.False(t, ok)
}
