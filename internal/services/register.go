package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/mkravets/vidstream/internal/apperror"
	"github.com/mkravets/vidstream/internal/assets"
	"github.com/mkravets/vidstream/internal/common"
	"github.com/mkravets/vidstream/internal/dbx"
	"github.com/mkravets/vidstream/internal/models"
)

// RegisterInput carries the registration form fields plus the required avatar
// asset and the optional cover image.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *AssetInput
	CoverImage *AssetInput
}

// Register runs the registration workflow: field validation, uniqueness
// check, asset uploads, record creation, and post-creation re-fetch. When
// creation or the re-fetch fails after assets were uploaded, the uploaded
// assets are deleted before the original error is surfaced, so a failed
// registration never leaves orphaned binaries behind.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))

	var missing []string
	if fullName == "" {
		missing = append(missing, "fullName")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if username == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(in.Password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, apperror.NewValidationError("all fields are required", missing...)
	}

	repo := s.repos.Users(s.db)

	// Best-effort pre-check so duplicates get a friendly error naming the
	// offending field(s). The unique constraints remain the real guarantee.
	existing, err := repo.FindByIdentity(ctx, username, email)
	switch {
	case err == nil:
		var taken []string
		if existing.Username == username {
			taken = append(taken, "username")
		}
		if existing.Email == email {
			taken = append(taken, "email")
		}
		return nil, apperror.NewConflictError("user with this email or username already exists", taken...)
	case !errors.Is(err, common.ErrNotFound):
		return nil, apperror.NewInternalError("failed to check existing user", err)
	}

	if in.Avatar == nil {
		return nil, apperror.NewValidationError("avatar file is missing")
	}

	avatar, err := s.gateway.Upload(ctx, in.Avatar.Filename, in.Avatar.Content)
	if err != nil {
		return nil, apperror.NewUploadError("failed to upload avatar", err)
	}

	var cover *assets.Asset
	if in.CoverImage != nil {
		cover, err = s.gateway.Upload(ctx, in.CoverImage.Filename, in.CoverImage.Content)
		if err != nil {
			// nothing persisted yet, so nothing to compensate
			return nil, apperror.NewUploadError("failed to upload cover image", err)
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.deleteAssets(ctx, avatar, cover)
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		AvatarURL:    avatar.URL,
		AvatarKey:    avatar.Key,
	}
	if cover != nil {
		user.CoverImageURL = nullString(cover.URL)
		user.CoverImageKey = nullString(cover.Key)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repos.Users(tx)
		if _, err := repoTx.Create(ctx, user); err != nil {
			return err
		}
		// re-fetch: the returned record must be exactly what the store holds
		fetched, err := repoTx.FindByID(ctx, user.ID)
		if err != nil {
			return err
		}
		created = fetched
		return nil
	})
	if err != nil {
		s.deleteAssets(ctx, avatar, cover)
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			return nil, apperror.NewConflictError("username already exists", "username")
		case errors.Is(err, common.ErrDuplicateEmail):
			return nil, apperror.NewConflictError("email already exists", "email")
		default:
			return nil, apperror.NewInternalError("something went wrong while registering a user", err)
		}
	}

	return created.Sanitize(), nil
}
