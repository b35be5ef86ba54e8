// Package token issues and verifies the signed, time-bounded access and
// refresh tokens that make up a session. Both tokens carry the user id as
// their sole claim of authority, plus a token_type claim so one kind cannot
// be presented in place of the other.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mkravets/vidstream/internal/config"
)

const (
	// TypeAccess marks short-lived tokens authorizing individual requests.
	TypeAccess = "access"
	// TypeRefresh marks longer-lived tokens used solely to obtain a new pair.
	TypeRefresh = "refresh"
)

var (
	// ErrTokenInvalid indicates a malformed token, a bad signature, or a
	// token of the wrong type.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired indicates a cryptographically valid but expired token.
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the JWT payload: registered claims plus the user id and token type.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
}

// Issuer mints and verifies session tokens. Secrets and lifetimes are
// process-wide configuration provided at construction.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer constructs an Issuer from server config.
func NewIssuer(cfg *config.Config) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshTTL:    cfg.RefreshTokenValidityDuration,
	}
}

// IssueAccess mints a short-lived access token for userID.
func (i *Issuer) IssueAccess(userID string) (string, error) {
	return i.issue(userID, TypeAccess, i.accessSecret, i.accessTTL)
}

// IssueRefresh mints a refresh token for userID.
func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return i.issue(userID, TypeRefresh, i.refreshSecret, i.refreshTTL)
}

func (i *Issuer) issue(userID, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// the jti makes every token unique: timestamps alone have second
			// resolution, and rotation relies on tokens being distinguishable
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
		UserID:    userID,
		TokenType: tokenType,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses tokenString, checks its signature and expiry, and confirms it
// is of the expected type. Returns the embedded user id on success, and
// ErrTokenExpired or ErrTokenInvalid otherwise.
func (i *Issuer) Verify(tokenString, expectedType string) (string, error) {
	secret := i.accessSecret
	if expectedType == TypeRefresh {
		secret = i.refreshSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if !parsed.Valid || claims.TokenType != expectedType || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}
