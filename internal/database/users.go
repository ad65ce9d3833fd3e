package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gainworld/travel-guide/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts or fully replaces the user row keyed by subject ID in a
// single statement.
//
// The refresh token is the one exception to full replacement: Google only
// returns a refresh token on first consent, so a re-consent login would
// otherwise clobber the stored value with an empty string. An empty incoming
// refresh token keeps whatever is already stored.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (subject_id, access_token, refresh_token, name, profile_image)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(subject_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = CASE
				WHEN excluded.refresh_token = '' THEN users.refresh_token
				ELSE excluded.refresh_token
			END,
			name = excluded.name,
			profile_image = excluded.profile_image
	`

	_, err := r.db.ExecContext(ctx, query,
		user.SubjectID,
		user.AccessToken,
		user.RefreshToken,
		user.Name,
		user.ProfileImage,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// GetBySubject retrieves a user by Google subject ID
func (r *UserRepository) GetBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT subject_id, access_token, refresh_token, name, profile_image
		FROM users
		WHERE subject_id = ?
	`

	var accessToken, refreshToken, name, profileImage sql.NullString
	err := r.db.QueryRowContext(ctx, query, subjectID).Scan(
		&user.SubjectID,
		&accessToken,
		&refreshToken,
		&name,
		&profileImage,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.AccessToken = accessToken.String
	user.RefreshToken = refreshToken.String
	user.Name = name.String
	user.ProfileImage = profileImage.String

	return user, nil
}
