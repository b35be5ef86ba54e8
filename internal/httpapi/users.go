package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkravets/vidstream/internal/apperror"
	"github.com/mkravets/vidstream/internal/models"
	"github.com/mkravets/vidstream/internal/services"
)

// userPayload is the wire shape of a user record. Secrets never appear here;
// the cover image flattens to a plain URL string, empty when unset.
type userPayload struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.AvatarURL,
		CoverImage: u.CoverImage(),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		h.respondError(r.Context(), w, apperror.NewValidationError("invalid multipart form"))
		return
	}

	avatar, closeAvatar, err := formAsset(r, "avatar")
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}
	defer closeAvatar()

	cover, closeCover, err := formAsset(r, "coverImage")
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}
	defer closeCover()

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		FullName:   r.FormValue("fullName"),
		Email:      r.FormValue("email"),
		Username:   r.FormValue("username"),
		Password:   r.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	h.respondSuccess(w, http.StatusCreated, "user created successfully", newUserPayload(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	user, pair, err := h.users.Login(r.Context(), services.LoginInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	setSessionCookies(w, pair)
	h.respondSuccess(w, http.StatusOK, "user logged in successfully", map[string]any{
		"user":         newUserPayload(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		h.respondError(r.Context(), w, apperror.NewUnauthorizedError("unauthorized request", nil))
		return
	}

	if err := h.users.Logout(r.Context(), principal.ID); err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	clearSessionCookies(w)
	h.respondSuccess(w, http.StatusOK, "user logged out successfully", map[string]any{})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	// body is optional here, the token may arrive via cookie instead
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			h.respondError(r.Context(), w, err)
			return
		}
	}
	presented := body.RefreshToken
	if presented == "" {
		if c, err := r.Cookie(refreshTokenCookie); err == nil {
			presented = c.Value
		}
	}

	pair, err := h.users.Refresh(r.Context(), presented)
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	setSessionCookies(w, pair)
	h.respondSuccess(w, http.StatusOK, "access token refreshed successfully", map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		h.respondError(r.Context(), w, apperror.NewUnauthorizedError("unauthorized request", nil))
		return
	}

	var body struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), principal.ID, body.OldPassword, body.NewPassword); err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	h.respondSuccess(w, http.StatusOK, "password updated successfully", map[string]any{})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		h.respondError(r.Context(), w, apperror.NewUnauthorizedError("unauthorized request", nil))
		return
	}
	h.respondSuccess(w, http.StatusOK, "current user data", newUserPayload(principal))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	payload := make([]userPayload, 0, len(users))
	for _, u := range users {
		payload = append(payload, newUserPayload(u))
	}
	h.respondSuccess(w, http.StatusOK, "users fetched successfully", payload)
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		h.respondError(r.Context(), w, apperror.NewValidationError("user id is required"))
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}
	h.respondSuccess(w, http.StatusOK, "user fetched successfully", newUserPayload(user))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		h.respondError(r.Context(), w, apperror.NewUnauthorizedError("unauthorized request", nil))
		return
	}

	var body struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.respondError(r.Context(), w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), principal.ID, body.FullName, body.Email)
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}
	h.respondSuccess(w, http.StatusOK, "account updated successfully", newUserPayload(user))
}

func (h *Handler) updateAvatar(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		h.respondError(r.Context(), w, apperror.NewUnauthorizedError("unauthorized request", nil))
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		h.respondError(r.Context(), w, apperror.NewValidationError("invalid multipart form"))
		return
	}

	avatar, closeAvatar, err := formAsset(r, "avatar")
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}
	defer closeAvatar()

	user, err := h.users.UpdateAvatar(r.Context(), principal.ID, avatar)
	if err != nil {
		h.respondError(r.Context(), w, err)
		return
	}
	h.respondSuccess(w, http.StatusOK, "avatar updated successfully", newUserPayload(user))
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.NewValidationError("invalid request body")
	}
	return nil
}

// formAsset opens the named file from a parsed multipart form. A missing
// field is not an error: the service decides whether the asset is required.
// The returned closer is always safe to call.
func formAsset(r *http.Request, field string) (*services.AssetInput, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, noop, nil
	}

	file, err := headers[0].Open()
	if err != nil {
		return nil, noop, apperror.NewValidationError("failed to read uploaded file")
	}
	return &services.AssetInput{
		Filename: headers[0].Filename,
		Content:  file,
	}, func() { _ = file.Close() }, nil
}
