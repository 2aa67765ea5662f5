// Package database owns the studio's SQLite database: connection setup and
// the embedded goose schema migrations.
package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// dsnOptions applies the pragmas every connection needs: WAL so gallery and
// blog reads are not blocked by webhook writes, a busy timeout instead of
// immediate SQLITE_BUSY, and foreign keys for the booking/membership
// cascades.
const dsnOptions = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Open opens (creating if needed) the database at path and brings its schema
// up to date. Passing ":memory:" yields a fresh, fully migrated database,
// which is how the tests run.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection serializes writers ahead of the driver's own locking
	// and keeps ":memory:" coherent — database/sql would otherwise hand each
	// pooled connection its own empty in-memory database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

func migrateSchema(db *sql.DB) error {
	goose.SetBaseFS(schemaFS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
