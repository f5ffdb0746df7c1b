// Package role defines the closed set of roles a basic graph pattern node can
// play against a tabular Facade-X source, and the lattice relating them.
//
// ROLES:
//
// Three general roles say only which triple position a node occupies:
//
//	Subject    Object    Predicate
//
// Eight specialized roles refine them:
//
//	ContainerTable, ContainerRow   refine Subject and Object
//	SlotColumn, SlotRow            refine Predicate
//	TypeProperty                   refines Predicate
//	SlotValue, TypeTable, FXRoot   refine Object
//
// LATTICE:
//
// Every ordered pair of roles has exactly one Relation: Identical,
// Specializes, Generalizes, Inconsistent or Unrelated. The table is derived
// from the two sets each role declares (the roles it specializes and the
// roles it is inconsistent with) plus the explicit list of unrelated pairs.
// The derivation is checked when the package is initialised; an
// unclassified, contradictory or asymmetric pair panics at startup instead of
// surfacing as a runtime contradiction.
//
// Relate is a constant-time table lookup and never allocates.
package role
