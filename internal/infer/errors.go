package infer

import (
	"errors"
	"fmt"

	"github.com/roach88/fxbgp/internal/role"
	"github.com/roach88/fxbgp/internal/term"
)

// ContradictionKind categorizes why a pattern cannot be satisfied.
type ContradictionKind string

const (
	// UnrecognizedEntity indicates a named entity or predicate that matches
	// no naming convention in a position where one is required.
	UnrecognizedEntity ContradictionKind = "unrecognized-entity"

	// TypeConflict indicates two roles for the same node that cannot coexist.
	TypeConflict ContradictionKind = "type-conflict"
)

// Contradiction reports that a pattern is self-contradictory.
//
// Inference stops at the first contradiction, so a Contradiction says
// nothing about the rest of the pattern.
type Contradiction struct {
	// Kind identifies the contradiction category.
	Kind ContradictionKind

	// Node is the offending node.
	Node term.Node

	// Held is the role the node already had (type conflicts only).
	Held role.Role

	// Proposed is the role that could not be merged (type conflicts only).
	Proposed role.Role

	// Triple is the index of the triple being classified, or -1.
	Triple int

	// Position is "subject", "predicate" or "object".
	Position string

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (c *Contradiction) Error() string {
	node := "<nil>"
	if c.Node != nil {
		node = c.Node.String()
	}
	if c.Triple >= 0 && c.Position != "" {
		return fmt.Sprintf("%s: %s: %s (triple %d, %s)", c.Kind, node, c.Reason, c.Triple, c.Position)
	}
	return fmt.Sprintf("%s: %s: %s", c.Kind, node, c.Reason)
}

func unrecognized(n term.Node, reason string) *Contradiction {
	return &Contradiction{
		Kind:   UnrecognizedEntity,
		Node:   n,
		Triple: -1,
		Reason: reason,
	}
}

func conflict(n term.Node, held, proposed role.Role, rel role.Relation) *Contradiction {
	reason := fmt.Sprintf("%s and %s are inconsistent", held, proposed)
	if rel != role.Inconsistent {
		reason = fmt.Sprintf("no specialization between %s and %s", held, proposed)
	}
	return &Contradiction{
		Kind:     TypeConflict,
		Node:     n,
		Held:     held,
		Proposed: proposed,
		Triple:   -1,
		Reason:   reason,
	}
}

// AsContradiction unwraps err to a *Contradiction.
func AsContradiction(err error) (*Contradiction, bool) {
	var c *Contradiction
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// IsUnrecognizedEntity returns true if err is an unrecognized-entity contradiction.
// Uses errors.As to handle wrapped errors.
func IsUnrecognizedEntity(err error) bool {
	c, ok := AsContradiction(err)
	return ok && c.Kind == UnrecognizedEntity
}

// IsTypeConflict returns true if err is a type-conflict contradiction.
// Uses errors.As to handle wrapped errors.
func IsTypeConflict(err error) bool {
	c, ok := AsContradiction(err)
	return ok && c.Kind == TypeConflict
}
