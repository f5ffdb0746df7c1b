package testutil

import (
	"sync"

	"github.com/roach88/fxbgp/internal/term"
)

// Oracle is a set-backed naming oracle for tests.
//
// Unlike naming.Conventions, Oracle recognizes exactly the IRIs it was
// given and counts every query, so tests can check what the engine asked.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Oracle struct {
	mu      sync.Mutex
	tables  map[string]bool
	rows    map[string]bool
	columns map[string]bool
	types   map[string]bool
	root    string
	queries int
}

// NewOracle creates an oracle that knows rdf:type as the only type
// predicate and fx:root as the root type.
func NewOracle() *Oracle {
	return &Oracle{
		tables:  map[string]bool{},
		rows:    map[string]bool{},
		columns: map[string]bool{},
		types:   map[string]bool{term.RDFType: true},
		root:    term.FXRoot,
	}
}

// WithTables registers table IRIs.
func (o *Oracle) WithTables(iris ...string) *Oracle { return o.add(o.tables, iris) }

// WithRowIndexes registers row-index predicate IRIs.
func (o *Oracle) WithRowIndexes(iris ...string) *Oracle { return o.add(o.rows, iris) }

// WithColumns registers column predicate IRIs.
func (o *Oracle) WithColumns(iris ...string) *Oracle { return o.add(o.columns, iris) }

// WithTypes registers additional type predicate IRIs.
func (o *Oracle) WithTypes(iris ...string) *Oracle { return o.add(o.types, iris) }

func (o *Oracle) add(set map[string]bool, iris []string) *Oracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, iri := range iris {
		set[iri] = true
	}
	return o
}

func (o *Oracle) has(set map[string]bool, iri string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries++
	return set[iri]
}

func (o *Oracle) IsTableEntity(iri string) bool       { return o.has(o.tables, iri) }
func (o *Oracle) IsRowIndexPredicate(iri string) bool { return o.has(o.rows, iri) }
func (o *Oracle) IsColumnPredicate(iri string) bool   { return o.has(o.columns, iri) }
func (o *Oracle) IsTypePredicate(iri string) bool     { return o.has(o.types, iri) }

func (o *Oracle) RootType() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries++
	return o.root
}

func (o *Oracle) IsRootType(iri string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries++
	return iri == o.root
}

// Queries returns how many questions the oracle has answered.
func (o *Oracle) Queries() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queries
}

// Reset zeroes the query counter.
func (o *Oracle) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries = 0
}
