package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mkravets/vidstream/internal/apperror"
	"github.com/mkravets/vidstream/internal/common"
	"github.com/mkravets/vidstream/internal/models"
	"github.com/mkravets/vidstream/internal/token"
)

// LoginInput carries the login form fields. Both identifiers are required
// even though the lookup matches either one; see the Login doc comment.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Login authenticates credentials and starts a session: it mints a fresh
// token pair and overwrites the stored refresh token, which immediately
// revokes any previously issued one.
//
// Both username and email must be present. The lookup still matches either
// field; the contract requires both to be supplied.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, *TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" {
		return nil, nil, apperror.NewValidationError("username and email are required")
	}

	repo := s.repos.Users(s.db)
	user, err := repo.FindByIdentity(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, apperror.NewNotFoundError("user does not exist")
		}
		return nil, nil, apperror.NewInternalError("failed to get user", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, nil, apperror.NewUnauthorizedError("invalid user credentials", nil)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, nil, apperror.NewInternalError("failed to persist refresh token", err)
	}

	return user.Sanitize(), pair, nil
}

// Logout clears the stored refresh token for the user. Calling it for a user
// with no active session is not an error.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	err := s.repos.Users(s.db).SetRefreshToken(ctx, userID, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return apperror.NewInternalError("failed to clear refresh token", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. The presented
// token must match the user's stored refresh token exactly; the swap is a
// single conditional update, so of two concurrent attempts with the same
// token only one can succeed. A cryptographically valid but superseded token
// is rejected: that is the revocation point.
func (s *UserService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, apperror.NewUnauthorizedError("refresh token is required", nil)
	}

	userID, err := s.tokens.Verify(presented, token.TypeRefresh)
	if err != nil {
		return nil, apperror.NewUnauthorizedError("invalid refresh token", err)
	}

	repo := s.repos.Users(s.db)
	if _, err := repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NewUnauthorizedError("invalid refresh token", nil)
		}
		return nil, apperror.NewInternalError("failed to get user", err)
	}

	pair, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}

	swapped, err := repo.CompareAndSetRefreshToken(ctx, userID, presented, pair.RefreshToken)
	if err != nil {
		return nil, apperror.NewInternalError("failed to rotate refresh token", err)
	}
	if !swapped {
		return nil, apperror.NewUnauthorizedError("invalid refresh token", nil)
	}

	return pair, nil
}

// ChangePassword replaces the stored password hash after verifying the old
// password. The active refresh token is left untouched.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" && newPassword == "" {
		return apperror.NewValidationError("password is required")
	}

	repo := s.repos.Users(s.db)
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.NewUnauthorizedError("user not found", nil)
		}
		return apperror.NewInternalError("failed to get user", err)
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return apperror.NewUnauthorizedError("old password is incorrect", nil)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.NewInternalError("failed to hash password", err)
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperror.NewInternalError("failed to update password", err)
	}
	return nil
}

func (s *UserService) issuePair(userID string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
