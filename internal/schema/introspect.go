package schema

import (
	"context"
	"sort"

	"github.com/roach88/fxbgp/internal/fxerr"
)

// Column describes one column of a table.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	NotNull    bool   `json:"not_null,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
}

// Table describes one user table or view.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Schema is the set of user tables of a database, sorted by name.
type Schema struct {
	Tables []Table `json:"tables"`
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (Table, bool) {
	if s == nil {
		return Table{}, false
	}
	i := sort.Search(len(s.Tables), func(i int) bool { return s.Tables[i].Name >= name })
	if i < len(s.Tables) && s.Tables[i].Name == name {
		return s.Tables[i], true
	}
	return Table{}, false
}

// HasColumn reports whether table declares column.
func (s *Schema) HasColumn(table, column string) bool {
	t, ok := s.Table(table)
	if !ok {
		return false
	}
	for _, c := range t.Columns {
		if c.Name == column {
			return true
		}
	}
	return false
}

// TableNames returns the table names in order.
func (s *Schema) TableNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

const tablesQuery = `
SELECT name FROM sqlite_master
WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
ORDER BY name`

const columnsQuery = `
SELECT name, type, "notnull", pk FROM pragma_table_info(?)
ORDER BY cid`

// Introspect lists user tables and views with their columns.
// Columns keep their declaration order.
func (s *Source) Introspect(ctx context.Context) (*Schema, error) {
	names, err := s.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	schema := &Schema{Tables: make([]Table, 0, len(names))}
	for _, name := range names {
		cols, err := s.columns(ctx, name)
		if err != nil {
			return nil, err
		}
		schema.Tables = append(schema.Tables, Table{Name: name, Columns: cols})
	}
	return schema, nil
}

// tableNames drains the table list before columns are queried; the source
// has a single connection.
func (s *Source) tableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaIntrospectFailure, "failed to list tables", fxerr.Field("path", s.path))
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fxerr.Wrap(err, fxerr.CodeSchemaIntrospectFailure, "failed to scan table name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaIntrospectFailure, "failed to list tables", fxerr.Field("path", s.path))
	}
	return names, nil
}

func (s *Source) columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := s.db.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaIntrospectFailure, "failed to read columns", fxerr.Field("table", table))
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			c       Column
			notNull int
			pk      int
		)
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &pk); err != nil {
			return nil, fxerr.Wrap(err, fxerr.CodeSchemaIntrospectFailure, "failed to scan column", fxerr.Field("table", table))
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk != 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaIntrospectFailure, "failed to read columns", fxerr.Field("table", table))
	}
	return cols, nil
}

// Lookup returns the table with the given name or a not-found error.
func (s *Schema) Lookup(name string) (Table, error) {
	t, ok := s.Table(name)
	if !ok {
		return Table{}, fxerr.New(fxerr.CodeSchemaTableNotFound, "no such table", fxerr.Field("table", name))
	}
	return t, nil
}
