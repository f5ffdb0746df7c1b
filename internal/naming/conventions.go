// Package naming recognizes the IRIs a tabular Facade-X source uses for its
// tables, row slots, column slots and type properties.
//
// Conventions implements infer.Oracle. It is immutable after construction
// and safe for concurrent use.
package naming

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/fxbgp/internal/config"
	"github.com/roach88/fxbgp/internal/fxerr"
	"github.com/roach88/fxbgp/internal/infer"
	"github.com/roach88/fxbgp/internal/schema"
	"github.com/roach88/fxbgp/internal/term"
)

// Options configures Conventions. Empty fields take the Facade-X defaults.
type Options struct {
	// Namespace prefixes table and column local names.
	Namespace string

	// RowIndexPrefix is followed by a positive integer in row slots.
	RowIndexPrefix string

	// TypePredicates are the IRIs recognized as type properties.
	TypePredicates []string

	// RootType marks the root container.
	RootType string

	// Tables maps table local names to their column local names.
	// When empty, any local name is accepted as a table or column.
	Tables map[string][]string
}

var _ infer.Oracle = (*Conventions)(nil)

// Conventions is a naming oracle built from Options.
type Conventions struct {
	namespace string
	rowPrefix string
	rootType  string
	types     map[string]bool
	tables    map[string]bool
	columns   map[string]bool
}

// New validates opts and builds the oracle.
func New(opts Options) (*Conventions, error) {
	opts = withDefaults(opts)

	c := &Conventions{
		namespace: nfc(opts.Namespace),
		rowPrefix: nfc(opts.RowIndexPrefix),
		rootType:  nfc(opts.RootType),
		types:     make(map[string]bool, len(opts.TypePredicates)),
	}
	for _, p := range opts.TypePredicates {
		c.types[nfc(p)] = true
	}

	if c.namespace == c.rowPrefix {
		return nil, fxerr.New(fxerr.CodeNamingOptionsInvalid,
			"namespace and row index prefix must differ", fxerr.Field("namespace", c.namespace))
	}

	if len(opts.Tables) > 0 {
		c.tables = make(map[string]bool, len(opts.Tables))
		c.columns = make(map[string]bool)
		for table, cols := range opts.Tables {
			table = nfc(table)
			if !isLocalName(table) || isRowLocal(table) {
				return nil, fxerr.New(fxerr.CodeNamingOptionsInvalid,
					"invalid table name", fxerr.Field("table", table))
			}
			c.tables[table] = true
			for _, col := range cols {
				col = nfc(col)
				if !isLocalName(col) {
					return nil, fxerr.New(fxerr.CodeNamingOptionsInvalid,
						"invalid column name", fxerr.Field("table", table), fxerr.Field("column", col))
				}
				c.columns[col] = true
			}
		}
	}

	return c, nil
}

// FromSchema builds the oracle from the tables of a database. Tables
// already present in opts are kept.
func FromSchema(s *schema.Schema, opts Options) (*Conventions, error) {
	merged := make(map[string][]string, len(opts.Tables))
	for name, cols := range opts.Tables {
		merged[name] = append([]string(nil), cols...)
	}
	for _, t := range tablesOf(s) {
		merged[t.Name] = append(merged[t.Name], t.ColumnNames()...)
	}
	opts.Tables = merged
	return New(opts)
}

// FromConfig builds the oracle from configuration, merging s when it is
// not nil.
func FromConfig(cfg config.NamingConfig, s *schema.Schema) (*Conventions, error) {
	opts := Options{
		Namespace:      cfg.Namespace,
		RowIndexPrefix: cfg.RowIndexPrefix,
		TypePredicates: cfg.TypePredicates,
		RootType:       cfg.RootType,
		Tables:         cfg.Columns(),
	}
	if s != nil {
		return FromSchema(s, opts)
	}
	return New(opts)
}

func withDefaults(opts Options) Options {
	if opts.Namespace == "" {
		opts.Namespace = term.DataNamespace
	}
	if opts.RowIndexPrefix == "" {
		opts.RowIndexPrefix = term.RDFNamespace + "_"
	}
	if len(opts.TypePredicates) == 0 {
		opts.TypePredicates = []string{term.RDFType}
	}
	if opts.RootType == "" {
		opts.RootType = term.FXRoot
	}
	return opts
}

// IsTableEntity reports whether iri is namespace + a table name.
func (c *Conventions) IsTableEntity(iri string) bool {
	local, ok := c.local(iri)
	if !ok || isRowLocal(local) {
		return false
	}
	if c.tables == nil {
		return true
	}
	return c.tables[local]
}

// IsRowIndexPredicate reports whether iri is the row prefix followed by a
// positive decimal integer, such as rdf:_1.
func (c *Conventions) IsRowIndexPredicate(iri string) bool {
	n, ok := strings.CutPrefix(nfc(iri), c.rowPrefix)
	return ok && isPositiveInteger(n)
}

// IsColumnPredicate reports whether iri is namespace + a column name.
func (c *Conventions) IsColumnPredicate(iri string) bool {
	if c.IsRowIndexPredicate(iri) {
		return false
	}
	local, ok := c.local(iri)
	if !ok || isRowLocal(local) {
		return false
	}
	if c.columns == nil {
		return true
	}
	return c.columns[local]
}

// IsTypePredicate reports whether iri is a configured type property.
func (c *Conventions) IsTypePredicate(iri string) bool {
	return c.types[nfc(iri)]
}

// RootType returns the root container marker.
func (c *Conventions) RootType() string {
	return c.rootType
}

// IsRootType reports whether iri is the root marker after NFC normalization.
func (c *Conventions) IsRootType(iri string) bool {
	return nfc(iri) == c.rootType
}

// Namespace returns the table and column namespace.
func (c *Conventions) Namespace() string {
	return c.namespace
}

// Permissive reports whether any local name is accepted.
func (c *Conventions) Permissive() bool {
	return c.tables == nil
}

// Tables returns the known table names, sorted.
func (c *Conventions) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for t := range c.tables {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

func (c *Conventions) local(iri string) (string, bool) {
	local, ok := strings.CutPrefix(nfc(iri), c.namespace)
	return local, ok && isLocalName(local)
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

func isLocalName(s string) bool {
	return s != "" && !strings.ContainsAny(s, "/#")
}

// isRowLocal reports whether s has the shape of a row slot, "_" + digits.
func isRowLocal(s string) bool {
	digits, ok := strings.CutPrefix(s, "_")
	return ok && digits != "" && strings.Trim(digits, "0123456789") == ""
}

func isPositiveInteger(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}

func tablesOf(s *schema.Schema) []schema.Table {
	if s == nil {
		return nil
	}
	return s.Tables
}
