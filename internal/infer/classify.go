package infer

import (
	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/term"
)

// snapshot is the read-only view of the assignment the classifier consults.
type snapshot interface {
	is(n term.Node, r role.Role) bool
}

// classifier proposes a role for one position of a triple.
// Rules are checked in order; the first that applies wins.
type classifier struct {
	oracle         Oracle
	strictSubjects bool
}

// subject classifies t.Subject.
func (c classifier) subject(t term.Triple, known snapshot) (role.Role, *Contradiction) {
	entity, named := t.Subject.(term.NamedEntity)

	// Rule 1 below claims every named subject as a table, so the table
	// convention is only consulted for subjects in strict mode.
	if named && c.strictSubjects && !c.oracle.IsTableEntity(entity.IRI) {
		return 0, unrecognized(t.Subject, "IRI does not match the table naming convention")
	}

	// ContainerTable(S) <- URI(S) | FXRoot(O) | SlotRow(P) | ContainerRow(O)
	if named ||
		known.is(t.Object, role.FXRoot) ||
		known.is(t.Predicate, role.SlotRow) ||
		known.is(t.Object, role.ContainerRow) {
		return role.ContainerTable, nil
	}

	// ContainerRow(S) <- SlotColumn(P) | TypeTable(O) | SlotValue(O)
	if known.is(t.Predicate, role.SlotColumn) ||
		known.is(t.Object, role.TypeTable) ||
		known.is(t.Object, role.SlotValue) {
		return role.ContainerRow, nil
	}

	switch t.Subject.Kind() {
	case term.KindVariable, term.KindBlank:
		return role.Subject, nil
	default:
		return 0, unrecognized(t.Subject, "a literal cannot be a subject")
	}
}

// object classifies t.Object.
func (c classifier) object(t term.Triple, known snapshot) (role.Role, *Contradiction) {
	// SlotValue(O) <- SlotColumn(P)
	if known.is(t.Predicate, role.SlotColumn) {
		return role.SlotValue, nil
	}

	// ContainerRow(O) <- SlotRow(P)
	if known.is(t.Predicate, role.SlotRow) {
		return role.ContainerRow, nil
	}

	switch o := t.Object.(type) {
	case term.NamedEntity:
		if c.oracle.IsRootType(o.IRI) {
			return role.FXRoot, nil
		}
		if c.oracle.IsTableEntity(o.IRI) {
			return role.TypeTable, nil
		}
		return 0, unrecognized(t.Object, "IRI is neither the root type nor a table type")
	case term.Blank, term.Variable:
		return role.Object, nil
	case term.Literal:
		// SlotValue(O) <- literal(O)
		return role.SlotValue, nil
	default:
		return 0, unrecognized(t.Object, "object cannot be of this kind")
	}
}

// predicate classifies t.Predicate.
func (c classifier) predicate(t term.Triple, known snapshot) (role.Role, *Contradiction) {
	// SlotColumn(P) <- SlotValue(O)
	if known.is(t.Object, role.SlotValue) {
		return role.SlotColumn, nil
	}

	// TypeProperty(P) <- TypeTable(O) | FXRoot(O)
	if known.is(t.Object, role.TypeTable) || known.is(t.Object, role.FXRoot) {
		return role.TypeProperty, nil
	}

	// SlotRow(P) <- ContainerRow(O)
	if known.is(t.Object, role.ContainerRow) {
		return role.SlotRow, nil
	}

	switch p := t.Predicate.(type) {
	case term.Variable:
		return role.Predicate, nil
	case term.NamedEntity:
		switch {
		case c.oracle.IsRowIndexPredicate(p.IRI):
			return role.SlotRow, nil
		case c.oracle.IsColumnPredicate(p.IRI):
			return role.SlotColumn, nil
		case c.oracle.IsTypePredicate(p.IRI):
			return role.TypeProperty, nil
		default:
			return 0, unrecognized(t.Predicate, "IRI matches no row, column or type convention")
		}
	default:
		return 0, unrecognized(t.Predicate, "predicate must be an IRI or a variable")
	}
}
