// Package httpapi exposes the identity service over HTTP: a chi router, a
// JSON response envelope, session cookies, and the bearer/cookie auth gate.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mkravets/vidstream/internal/logging"
	"github.com/mkravets/vidstream/internal/services"
	"github.com/mkravets/vidstream/internal/token"
)

// maxFormMemory caps the in-memory portion of a parsed multipart form.
const maxFormMemory = 16 << 20

type Handler struct {
	users  *services.UserService
	tokens *token.Issuer
	logger logging.Logger
}

func NewHandler(users *services.UserService, tokens *token.Issuer, logger logging.Logger) *Handler {
	return &Handler{
		users:  users,
		tokens: tokens,
		logger: logger.With("module", "httpapi"),
	}
}

// Routes assembles the /api/v1 surface. Session endpoints that require an
// authenticated principal sit behind the auth gate; registration, login, and
// token refresh do not.
func (h *Handler) Routes(corsOrigin string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", h.healthcheck)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/refresh-token", h.refresh)
			r.Get("/", h.list)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Post("/logout", h.logout)
				r.Post("/change-password", h.changePassword)
				r.Get("/current", h.current)
				r.Patch("/", h.updateProfile)
				r.Patch("/avatar", h.updateAvatar)
				r.Get("/{userId}", h.getByID)
			})
		})
	})

	return r
}

func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	h.respondSuccess(w, http.StatusOK, "OK", "health check passed")
}
