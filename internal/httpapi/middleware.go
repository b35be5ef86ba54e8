package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkravets/vidstream/internal/apperror"
	"github.com/mkravets/vidstream/internal/models"
	"github.com/mkravets/vidstream/internal/token"
)

type contextKey string

const principalKey contextKey = "principal"

// authenticate verifies the access token from the accessToken cookie or the
// Authorization bearer header, re-checks that the user still exists, and
// attaches the sanitized record to the request context. A valid token whose
// user has since been deleted is rejected.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := accessTokenFromRequest(r)
		if tokenString == "" {
			h.respondError(r.Context(), w, apperror.NewUnauthorizedError("unauthorized request", nil))
			return
		}

		userID, err := h.tokens.Verify(tokenString, token.TypeAccess)
		if err != nil {
			h.respondError(r.Context(), w, apperror.NewUnauthorizedError("invalid access token", err))
			return
		}

		user, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			h.respondError(r.Context(), w, apperror.NewUnauthorizedError("invalid access token", err))
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// principalFrom returns the authenticated user attached by the auth gate.
func principalFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(principalKey).(*models.User)
	return u, ok
}
