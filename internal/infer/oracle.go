package infer

// Oracle answers naming-convention questions about IRIs.
//
// Implementations are supplied by the caller (usually derived from the
// schema of the tabular source) and must be read-only: the engine may query
// them any number of times, and independent engines may share one oracle
// concurrently.
type Oracle interface {
	// IsTableEntity reports whether iri names a table. The same convention
	// recognizes table-type markers in object position.
	IsTableEntity(iri string) bool

	// IsRowIndexPredicate reports whether iri is a row slot such as rdf:_1.
	IsRowIndexPredicate(iri string) bool

	// IsColumnPredicate reports whether iri names a column slot.
	IsColumnPredicate(iri string) bool

	// IsTypePredicate reports whether iri is a type property such as rdf:type.
	IsTypePredicate(iri string) bool

	// RootType is the reserved IRI marking the Facade-X root container.
	RootType() string

	// IsRootType reports whether iri spells RootType, under the same
	// normalization as the other queries.
	IsRootType(iri string) bool
}
