// Package infer assigns a Facade-X role to every node of a basic graph
// pattern.
//
// Inference is a fixpoint over the pattern: each pass classifies the
// subject, predicate and object of every triple in order, and merges each
// proposal into the assignment at once, so later classifications in the
// same pass already see it. A pass that changes nothing ends the run.
//
// Merging follows the role lattice (see package role):
//
//	held absent          -> store the proposal
//	held == proposed     -> no change
//	held refines it      -> keep held
//	proposal refines     -> replace
//	anything else        -> type-conflict
//
// Every node moves at most absent -> general -> specialized, so a run takes
// at most 2*|nodes|+1 passes.
//
// Naming conventions of the tabular source are supplied through Oracle.
// The engine performs no I/O beyond its logger.
package infer
