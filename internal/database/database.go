package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

// Memory opens a private in-memory database, mostly for tests.
const Memory = ":memory:"

// Open connects to the document database through libSQL. A local path is
// opened as a SQLite file in WAL mode with a 5 s busy timeout; a libsql://
// or https:// URL is handed to the driver untouched (remote Turso database).
func Open(ctx context.Context, path string) (*sql.DB, error) {
	remote := isRemote(path)
	dsn := path
	if !remote {
		dsn = "file:" + path
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == Memory {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if !remote {
		// libSQL rejects Exec for PRAGMAs that return rows; QueryContext
		// handles both kinds.
		for _, p := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
		} {
			rows, err := db.QueryContext(ctx, p)
			if err != nil {
				db.Close()
				return nil, fmt.Errorf("executing %s: %w", p, err)
			}
			rows.Close()
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "libsql://") || strings.HasPrefix(path, "https://")
}

// Checker reports database reachability to the health endpoint.
type Checker struct{ DB *sql.DB }

func (c Checker) Check(ctx context.Context) error { return c.DB.PingContext(ctx) }
