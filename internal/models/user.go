// Package models defines server-side data models persisted in the database.
package models

import (
	"database/sql"
	"time"
)

// User is the identity record. Username and Email are stored trimmed and
// lower-cased; uniqueness is enforced by the database. PasswordHash and
// RefreshToken never leave the service layer: they are excluded from JSON
// and additionally blanked by Sanitize before a record is returned.
type User struct {
	ID            string         `json:"id"`
	Username      string         `json:"username"`
	Email         string         `json:"email"`
	FullName      string         `json:"fullName"`
	PasswordHash  string         `json:"-"`
	AvatarURL     string         `json:"avatar"`
	AvatarKey     string         `json:"-"`
	CoverImageURL sql.NullString `json:"-"`
	CoverImageKey sql.NullString `json:"-"`
	// RefreshToken is the single currently valid refresh token, or NULL when
	// the user has no active session.
	RefreshToken sql.NullString `json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// CoverImage returns the cover image URL or "" when none was uploaded.
// Exposed through the marshalled form of the sanitized record.
func (u *User) CoverImage() string {
	if u.CoverImageURL.Valid {
		return u.CoverImageURL.String
	}
	return ""
}

// Sanitize returns a copy of the user with all secret material removed.
func (u *User) Sanitize() *User {
	s := *u
	s.PasswordHash = ""
	s.RefreshToken = sql.NullString{}
	return &s
}
