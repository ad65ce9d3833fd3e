package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection pool.
type DB struct {
	*sql.DB
}

// New opens the SQLite database at the given path and verifies the
// connection. Foreign keys are enforced so places cannot outlive their owner.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the schema if it does not exist. It is idempotent and safe
// to run on every startup.
//
// The unique index on (owner_id, latitude, longitude) makes place insertion
// an atomic insert-if-absent, so two concurrent adds for the same coordinates
// cannot both land. Database files written before the index existed may still
// contain duplicate rows; PlaceRepository.CleanupDuplicates removes those, and
// must run before Migrate on such files or the index creation fails.
func (db *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			subject_id TEXT PRIMARY KEY,
			access_token TEXT,
			refresh_token TEXT,
			name TEXT,
			profile_image TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS places (
			place_id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL REFERENCES users(subject_id),
			name TEXT NOT NULL,
			address TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			external_place_id TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_places_owner_coords
			ON places(owner_id, latitude, longitude)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
