package schema

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/fxbgp/internal/fxerr"
)

// Source is a read-only handle on a SQLite database.
type Source struct {
	db   *sql.DB
	path string
}

// Open opens the SQLite database at path read-only.
//
// The connection is configured with:
//   - mode=ro so the file is never written or created
//   - query_only as a second guard against writes
//   - 5-second busy timeout for lock contention with writers
func Open(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaOpenFailure, "database not found", fxerr.Field("path", path))
	}

	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaOpenFailure, "failed to open database", fxerr.Field("path", path))
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaOpenFailure, "failed to connect to database", fxerr.Field("path", path))
	}

	// Introspection interleaves queries, one connection keeps them ordered.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fxerr.Wrap(err, fxerr.CodeSchemaOpenFailure, "failed to apply pragmas", fxerr.Field("path", path))
	}

	return &Source{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the path the source was opened from.
func (s *Source) Path() string {
	return s.path
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Load opens path, introspects it and closes it again.
func Load(ctx context.Context, path string) (*Schema, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Introspect(ctx)
}
