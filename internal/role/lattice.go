package role

import "fmt"

// Relation classifies an ordered pair of roles (a, b).
type Relation uint8

const (
	relUnset Relation = iota

	// Identical means a == b.
	Identical
	// Inconsistent means a and b can never be held by the same node.
	Inconsistent
	// Specializes means a is strictly more informative than b.
	Specializes
	// Generalizes means b is strictly more informative than a.
	Generalizes
	// Unrelated means neither refines the other and they are not declared
	// inconsistent. A node may hold both only through a role refining each.
	Unrelated
)

var relationNames = [...]string{
	relUnset:     "unset",
	Identical:    "identical",
	Inconsistent: "inconsistent",
	Specializes:  "specializes",
	Generalizes:  "generalizes",
	Unrelated:    "unrelated",
}

// String returns the lowercase relation name.
func (rel Relation) String() string {
	if int(rel) >= len(relationNames) {
		return fmt.Sprintf("Relation(%d)", uint8(rel))
	}
	return relationNames[rel]
}

// specializes lists, per role, the roles it refines.
var specializes = map[Role][]Role{
	ContainerTable: {Subject, Object},
	ContainerRow:   {Subject, Object},
	SlotColumn:     {Predicate},
	SlotRow:        {Predicate},
	TypeProperty:   {Predicate},
	SlotValue:      {Object},
	TypeTable:      {Object},
	FXRoot:         {Object},
}

// inconsistentWith lists, per role, the roles it can never coexist with.
// Must be symmetric.
var inconsistentWith = map[Role][]Role{
	Subject:        {Predicate, SlotColumn, SlotRow, SlotValue, TypeTable, TypeProperty, FXRoot},
	Object:         {Predicate, SlotColumn, SlotRow, TypeProperty},
	Predicate:      {Subject, Object, ContainerTable, ContainerRow, SlotValue, TypeTable, FXRoot},
	ContainerTable: {Predicate, ContainerRow, SlotColumn, SlotRow, SlotValue, TypeTable, TypeProperty, FXRoot},
	ContainerRow:   {Predicate, ContainerTable, SlotColumn, SlotRow, SlotValue, TypeTable, TypeProperty, FXRoot},
	SlotColumn:     {Subject, Object, ContainerTable, ContainerRow, SlotRow, SlotValue, TypeTable, TypeProperty, FXRoot},
	SlotRow:        {Subject, Object, ContainerTable, ContainerRow, SlotColumn, SlotValue, TypeTable, TypeProperty, FXRoot},
	SlotValue:      {Subject, Predicate, ContainerTable, ContainerRow, SlotColumn, SlotRow, TypeTable, TypeProperty, FXRoot},
	TypeTable:      {Subject, Predicate, ContainerTable, ContainerRow, SlotColumn, SlotRow, SlotValue, TypeProperty, FXRoot},
	TypeProperty:   {Subject, Object, ContainerTable, ContainerRow, SlotColumn, SlotRow, SlotValue, TypeTable, FXRoot},
	FXRoot:         {Subject, Predicate, ContainerTable, ContainerRow, SlotColumn, SlotRow, SlotValue, TypeTable, TypeProperty},
}

// unrelatedPairs are the pairs left outside both relations. A node seen as
// both an unconstrained subject and an unconstrained object needs a
// container role, which refines both, before it is consistent.
var unrelatedPairs = [][2]Role{
	{Subject, Object},
}

// table[a][b] is the relation of a to b. Index 0 is unused.
var table [numRoles + 1][numRoles + 1]Relation

func init() {
	t, err := buildTable()
	if err != nil {
		panic("role: lattice is not total: " + err.Error())
	}
	table = t
}

// buildTable derives the relation table from the declared sets and checks
// that every pair is classified exactly once.
func buildTable() ([numRoles + 1][numRoles + 1]Relation, error) {
	var t [numRoles + 1][numRoles + 1]Relation

	set := func(a, b Role, rel Relation) error {
		if prev := t[a][b]; prev != relUnset && prev != rel {
			return fmt.Errorf("%s/%s declared both %s and %s", a, b, prev, rel)
		}
		t[a][b] = rel
		return nil
	}

	for _, r := range All() {
		t[r][r] = Identical
	}

	for a, targets := range specializes {
		if a.IsGeneral() {
			return t, fmt.Errorf("general role %s cannot specialize another role", a)
		}
		if len(targets) == 0 {
			return t, fmt.Errorf("specialized role %s refines no general role", a)
		}
		for _, b := range targets {
			if !b.IsGeneral() {
				return t, fmt.Errorf("%s specializes %s, which is not a general role", a, b)
			}
			if err := set(a, b, Specializes); err != nil {
				return t, err
			}
			if err := set(b, a, Generalizes); err != nil {
				return t, err
			}
		}
	}

	for a, others := range inconsistentWith {
		for _, b := range others {
			if a == b {
				return t, fmt.Errorf("%s declared inconsistent with itself", a)
			}
			if !contains(inconsistentWith[b], a) {
				return t, fmt.Errorf("%s is inconsistent with %s but not the reverse", a, b)
			}
			if err := set(a, b, Inconsistent); err != nil {
				return t, err
			}
		}
	}

	for _, pair := range unrelatedPairs {
		if err := set(pair[0], pair[1], Unrelated); err != nil {
			return t, err
		}
		if err := set(pair[1], pair[0], Unrelated); err != nil {
			return t, err
		}
	}

	for _, r := range All() {
		if !r.IsGeneral() {
			if _, ok := specializes[r]; !ok {
				return t, fmt.Errorf("specialized role %s refines no general role", r)
			}
		}
	}

	for _, a := range All() {
		for _, b := range All() {
			if t[a][b] == relUnset {
				return t, fmt.Errorf("pair %s/%s is unclassified", a, b)
			}
		}
	}

	return t, nil
}

func contains(roles []Role, r Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

// Relate returns the relation of a to b.
// Invalid roles relate to everything as Unrelated.
func Relate(a, b Role) Relation {
	if !a.Valid() || !b.Valid() {
		return Unrelated
	}
	return table[a][b]
}

// Meet returns the more specialized of two roles together with their
// relation. It returns ok=false when the roles are inconsistent or unrelated.
func Meet(a, b Role) (r Role, rel Relation, ok bool) {
	rel = Relate(a, b)
	switch rel {
	case Identical, Specializes:
		return a, rel, true
	case Generalizes:
		return b, rel, true
	default:
		return 0, rel, false
	}
}

// SpecializationOf returns the roles r refines. General roles refine nothing.
func SpecializationOf(r Role) []Role {
	return append([]Role(nil), specializes[r]...)
}

// InconsistentWith returns the roles r can never share a node with.
func InconsistentWith(r Role) []Role {
	return append([]Role(nil), inconsistentWith[r]...)
}
