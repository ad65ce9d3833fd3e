package database

import (
	"context"
	"fmt"

	"github.com/gainworld/travel-guide/internal/models"
)

// AddOutcome reports what Add did with a place.
type AddOutcome int

const (
	// OutcomeCreated means a new row was inserted.
	OutcomeCreated AddOutcome = iota
	// OutcomeAlreadyExists means the owner already has a place at the same
	// coordinates and nothing was written.
	OutcomeAlreadyExists
)

// PlaceRepository handles place database operations
type PlaceRepository struct {
	db *DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// Add inserts a place unless the owner already has one at the same
// (latitude, longitude). INSERT OR IGNORE against the unique coordinate index
// makes the check-and-insert a single atomic statement, so concurrent adds
// for the same pair cannot both create a row. On OutcomeCreated the assigned
// PlaceID is written back to place.
func (r *PlaceRepository) Add(ctx context.Context, place *models.Place) (AddOutcome, error) {
	query := `
		INSERT OR IGNORE INTO places (owner_id, name, address, latitude, longitude, external_place_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		place.OwnerID,
		place.Name,
		place.Address,
		place.Latitude,
		place.Longitude,
		place.ExternalPlaceID,
	)
	if err != nil {
		return OutcomeAlreadyExists, fmt.Errorf("failed to add place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return OutcomeAlreadyExists, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return OutcomeAlreadyExists, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return OutcomeCreated, fmt.Errorf("failed to get place ID: %w", err)
	}
	place.PlaceID = id

	return OutcomeCreated, nil
}

// ListByOwner returns the owner's places with at most one row per distinct
// (latitude, longitude) pair, choosing the smallest place_id among duplicates.
// This is a pure read; duplicate rows left behind by pre-index database files
// are removed by CleanupDuplicates, not here.
//
// SQLite guarantees that bare columns in a MIN() aggregate query are taken
// from the row holding the minimum, so name and address always belong to the
// representative row.
func (r *PlaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Place, error) {
	query := `
		SELECT MIN(place_id) AS place_id, owner_id, name, address, latitude, longitude, external_place_id
		FROM places
		WHERE owner_id = ?
		GROUP BY latitude, longitude
		ORDER BY place_id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	places := make([]*models.Place, 0)
	for rows.Next() {
		place := &models.Place{}
		err := rows.Scan(
			&place.PlaceID,
			&place.OwnerID,
			&place.Name,
			&place.Address,
			&place.Latitude,
			&place.Longitude,
			&place.ExternalPlaceID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate places: %w", err)
	}

	return places, nil
}

// Remove deletes the place matching both owner and place ID. Removing a
// missing or foreign ID is a no-op, not an error; the returned count lets
// callers log whether anything actually happened.
func (r *PlaceRepository) Remove(ctx context.Context, ownerID string, placeID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM places WHERE owner_id = ? AND place_id = ?`,
		ownerID, placeID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to remove place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// CleanupDuplicates deletes every non-representative duplicate row for the
// owner, keeping the smallest place_id per (latitude, longitude) pair. It is
// an explicit maintenance operation for database files that predate the
// unique coordinate index, and is idempotent: a second run with no
// intervening writes deletes nothing.
func (r *PlaceRepository) CleanupDuplicates(ctx context.Context, ownerID string) (int64, error) {
	query := `
		DELETE FROM places
		WHERE owner_id = ?
		AND place_id NOT IN (
			SELECT MIN(place_id)
			FROM places
			WHERE owner_id = ?
			GROUP BY latitude, longitude
		)
	`

	result, err := r.db.ExecContext(ctx, query, ownerID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up duplicates: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// CleanupAllDuplicates runs the duplicate cleanup across every owner.
func (r *PlaceRepository) CleanupAllDuplicates(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM places
		WHERE place_id NOT IN (
			SELECT MIN(place_id)
			FROM places
			GROUP BY owner_id, latitude, longitude
		)
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up duplicates: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
