// Package term models the basic graph patterns handed to role inference.
//
// A Pattern is an ordered list of Triples; each position holds a Node of one
// of four kinds (variable, named entity, blank, literal). Nodes are values
// compared by Key, so the same IRI or variable name appearing twice is the
// same node no matter how it was constructed.
//
// ParseTerm and ParsePattern accept the compact notation used by pattern
// specs and scenarios:
//
//	[["?x", "rdf:_1", "?row"], ["?row", "xyz:name", "\"Alice\"@en"]]
//
// The rdf, xsd, fx and xyz prefixes are always available.
package term
