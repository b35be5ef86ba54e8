// Package users provides persistence for user identity records.
package users

import (
	"context"

	"github.com/mkravets/vidstream/internal/models"
)

// Repository is the persistence contract for user records. Implementations
// return common.ErrNotFound for absent records and the common duplicate
// sentinels when a unique constraint fires.
type Repository interface {
	// Create inserts a new user record and returns it with store-assigned
	// timestamps filled in.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByIdentity returns the user whose username or email matches either
	// argument. Arguments are expected to be trimmed and lower-cased.
	FindByIdentity(ctx context.Context, username, email string) (*models.User, error)

	// FindByID returns the user with the given id.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// List returns all user records.
	List(ctx context.Context) ([]*models.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateProfile replaces full name and email and returns the updated record.
	UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error)

	// UpdateAvatar replaces the avatar reference and returns the updated record.
	UpdateAvatar(ctx context.Context, id, avatarURL, avatarKey string) (*models.User, error)

	// SetRefreshToken unconditionally stores token as the user's current
	// refresh token. A nil token clears it.
	SetRefreshToken(ctx context.Context, id string, token *string) error

	// CompareAndSetRefreshToken atomically replaces the stored refresh token
	// with next, but only when the stored value still equals expected.
	// Returns true when the swap happened.
	CompareAndSetRefreshToken(ctx context.Context, id, expected, next string) (bool, error)
}
