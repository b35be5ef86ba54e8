package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkravets/vidstream/internal/common"
	"github.com/mkravets/vidstream/internal/dbx"
	"github.com/mkravets/vidstream/internal/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

const userColumns = `id, username, email, full_name, password_hash,
		avatar_url, avatar_key, cover_image_url, cover_image_key,
		refresh_token, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.AvatarURL, &user.AvatarKey,
		&user.CoverImageURL, &user.CoverImageKey, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// mapUniqueViolation translates a PostgreSQL unique-violation into the
// matching duplicate sentinel, based on which constraint fired.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return common.ErrDuplicateEmail
	}
	return common.ErrDuplicateUsername
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, full_name, password_hash,
			avatar_url, avatar_key, cover_image_url, cover_image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.AvatarKey, user.CoverImageURL, user.CoverImageKey).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) FindByIdentity(ctx context.Context, username, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $2
	`
	return scanUser(r.db.QueryRowContext(ctx, query, username, email))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.FullName,
			&user.PasswordHash, &user.AvatarURL, &user.AvatarKey,
			&user.CoverImageURL, &user.CoverImageKey, &user.RefreshToken,
			&user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, fullName, email))
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, avatarURL, avatarKey string) (*models.User, error) {
	query := `
		UPDATE users SET avatar_url = $2, avatar_key = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id, avatarURL, avatarKey))
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	query := `
		UPDATE users SET refresh_token = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CompareAndSetRefreshToken performs the rotation as a single conditional
// update, closing the race between concurrent refresh attempts presenting
// the same token: at most one of them observes a swapped row.
func (r *PostgresRepository) CompareAndSetRefreshToken(ctx context.Context, id, expected, next string) (bool, error) {
	query := `
		UPDATE users SET refresh_token = $3, updated_at = now()
		WHERE id = $1 AND refresh_token = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, expected, next)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}
