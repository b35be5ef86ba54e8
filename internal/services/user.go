// Package services contains server-side business logic. UserService covers
// the account workflows: registration with compensating rollback of uploaded
// assets, the login/logout/refresh session lifecycle with refresh-token
// rotation, and account maintenance operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/mkravets/vidstream/internal/apperror"
	"github.com/mkravets/vidstream/internal/assets"
	"github.com/mkravets/vidstream/internal/common"
	"github.com/mkravets/vidstream/internal/logging"
	"github.com/mkravets/vidstream/internal/models"
	"github.com/mkravets/vidstream/internal/password"
	"github.com/mkravets/vidstream/internal/repositories/repomanager"
	"github.com/mkravets/vidstream/internal/token"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AssetInput is an inbound binary asset (e.g. one part of a multipart form).
type AssetInput struct {
	Filename string
	Content  io.Reader
}

// UserService provides account and session operations.
type UserService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	gateway assets.Gateway
	hasher  password.Hasher
	tokens  *token.Issuer
	logger  logging.Logger
}

// NewUserService constructs a UserService from its collaborators.
func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, gateway assets.Gateway,
	hasher password.Hasher, tokens *token.Issuer, logger logging.Logger) *UserService {
	return &UserService{
		db:      db,
		repos:   repos,
		gateway: gateway,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger.With("module", "user_service"),
	}
}

// GetByID returns the sanitized user record with the given id.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repos.Users(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NewNotFoundError("user not found")
		}
		return nil, apperror.NewInternalError("failed to get user", err)
	}
	return user.Sanitize(), nil
}

// List returns all user records, sanitized.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	all, err := s.repos.Users(s.db).List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError("failed to list users", err)
	}
	result := make([]*models.User, 0, len(all))
	for _, u := range all {
		result = append(result, u.Sanitize())
	}
	return result, nil
}

// UpdateProfile replaces the user's full name and email.
func (s *UserService) UpdateProfile(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, apperror.NewValidationError("fullName and email are required")
	}

	user, err := s.repos.Users(s.db).UpdateProfile(ctx, userID, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateEmail):
			return nil, apperror.NewConflictError("email already exists", "email")
		case errors.Is(err, common.ErrNotFound):
			return nil, apperror.NewNotFoundError("user not found")
		default:
			return nil, apperror.NewInternalError("failed to update user", err)
		}
	}
	return user.Sanitize(), nil
}

// UpdateAvatar uploads a replacement avatar, swaps the stored reference, and
// deletes the previous asset best-effort.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, avatar *AssetInput) (*models.User, error) {
	if avatar == nil {
		return nil, apperror.NewValidationError("avatar file is missing")
	}

	repo := s.repos.Users(s.db)
	current, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NewNotFoundError("user not found")
		}
		return nil, apperror.NewInternalError("failed to get user", err)
	}

	uploaded, err := s.gateway.Upload(ctx, avatar.Filename, avatar.Content)
	if err != nil {
		return nil, apperror.NewUploadError("failed to upload avatar", err)
	}

	updated, err := repo.UpdateAvatar(ctx, userID, uploaded.URL, uploaded.Key)
	if err != nil {
		// the record still points at the old asset; remove the new one
		s.deleteAssets(ctx, uploaded)
		return nil, apperror.NewInternalError("failed to update avatar", err)
	}

	s.deleteAssets(ctx, &assets.Asset{Key: current.AvatarKey})
	return updated.Sanitize(), nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: true}
}

// deleteAssets removes uploaded assets best-effort. Deletion failures are
// logged, never escalated: they must not mask the error being compensated.
func (s *UserService) deleteAssets(ctx context.Context, toDelete ...*assets.Asset) {
	for _, a := range toDelete {
		if a == nil || a.Key == "" {
			continue
		}
		if err := s.gateway.Delete(ctx, a.Key); err != nil {
			s.logger.Error(ctx, "failed to delete uploaded asset", "key", a.Key, "error", err)
		}
	}
}
