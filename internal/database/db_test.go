package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gainworld/travel-guide/internal/models"
)

// newTestDB opens a fresh database file with the current schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// newLegacyTestDB opens a database with the pre-index schema, which allowed
// duplicate (owner_id, latitude, longitude) rows.
func newLegacyTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "legacy.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	stmts := []string{
		`CREATE TABLE users (
			subject_id TEXT PRIMARY KEY,
			access_token TEXT,
			refresh_token TEXT,
			name TEXT,
			profile_image TEXT
		)`,
		`CREATE TABLE places (
			place_id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL REFERENCES users(subject_id),
			name TEXT NOT NULL,
			address TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			external_place_id TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create legacy schema: %v", err)
		}
	}

	return db
}

// mustCreateUser inserts a user row so place rows satisfy the foreign key.
func mustCreateUser(t *testing.T, db *DB, subjectID string) {
	t.Helper()

	repo := NewUserRepository(db)
	user := &models.User{
		SubjectID:    subjectID,
		AccessToken:  "access-" + subjectID,
		Name:         "Test User",
		ProfileImage: models.DefaultProfileImage,
	}
	if err := repo.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", subjectID, err)
	}
}

// mustInsertPlace inserts a place row directly, bypassing Add's dedup guard.
// Only valid against the legacy schema.
func mustInsertPlace(t *testing.T, db *DB, place *models.Place) int64 {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO places (owner_id, name, address, latitude, longitude, external_place_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		place.OwnerID, place.Name, place.Address, place.Latitude, place.Longitude, place.ExternalPlaceID,
	)
	if err != nil {
		t.Fatalf("failed to insert place: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get place ID: %v", err)
	}
	return id
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return count
}
