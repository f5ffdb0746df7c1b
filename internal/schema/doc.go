// Package schema reads table and column names from a SQLite database.
//
// The database is the tabular source a Facade-X query runs against. Its
// tables and columns become the naming conventions the inference oracle
// recognizes (see package naming). The database is opened read-only and
// never modified.
package schema
