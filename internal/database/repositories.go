package database

import (
	"context"

	"github.com/gainworld/travel-guide/internal/models"
)

// UserStore defines the interface for user persistence operations.
// This interface enables better testability by allowing mock implementations
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
	GetBySubject(ctx context.Context, subjectID string) (*models.User, error)
}

// PlaceStore defines the interface for place persistence operations
type PlaceStore interface {
	Add(ctx context.Context, place *models.Place) (AddOutcome, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Place, error)
	Remove(ctx context.Context, ownerID string, placeID int64) (int64, error)
	CleanupDuplicates(ctx context.Context, ownerID string) (int64, error)
}

// Ensure concrete types implement the interfaces
var (
	_ UserStore  = (*UserRepository)(nil)
	_ PlaceStore = (*PlaceRepository)(nil)
)
