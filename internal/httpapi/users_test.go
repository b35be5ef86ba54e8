package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkravets/vidstream/internal/assets"
	"github.com/mkravets/vidstream/internal/common"
	"github.com/mkravets/vidstream/internal/config"
	"github.com/mkravets/vidstream/internal/dbx"
	"github.com/mkravets/vidstream/internal/logging"
	"github.com/mkravets/vidstream/internal/models"
	"github.com/mkravets/vidstream/internal/password"
	"github.com/mkravets/vidstream/internal/repositories/users"
	"github.com/mkravets/vidstream/internal/services"
	"github.com/mkravets/vidstream/internal/token"
)

// memRepo is an in-memory users.Repository backing the HTTP tests.
type memRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	dupEmail bool
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*models.User{}}
}

func (m *memRepo) add(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *u
	m.users[u.ID] = &c
}

func (m *memRepo) get(id string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c
	}
	return nil
}

func (m *memRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, common.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	c := *u
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.users[u.ID] = &c
	out := c
	return &out, nil
}

func (m *memRepo) FindByIdentity(ctx context.Context, username, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u := m.get(id); u != nil {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (m *memRepo) List(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (m *memRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dupEmail {
		return nil, common.ErrDuplicateEmail
	}
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.FullName = fullName
	u.Email = email
	c := *u
	return &c, nil
}

func (m *memRepo) UpdateAvatar(ctx context.Context, id, avatarURL, avatarKey string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.AvatarURL = avatarURL
	u.AvatarKey = avatarKey
	c := *u
	return &c, nil
}

func (m *memRepo) SetRefreshToken(ctx context.Context, id string, tok *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return common.ErrNotFound
	}
	if tok == nil {
		u.RefreshToken = sql.NullString{}
	} else {
		u.RefreshToken = sql.NullString{String: *tok, Valid: true}
	}
	return nil
}

func (m *memRepo) CompareAndSetRefreshToken(ctx context.Context, id, expected, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || !u.RefreshToken.Valid || u.RefreshToken.String != expected {
		return false, nil
	}
	u.RefreshToken = sql.NullString{String: next, Valid: true}
	return true, nil
}

type memRepoManager struct{ repo *memRepo }

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) users.Repository             { return m.repo }

type memGateway struct {
	mu      sync.Mutex
	seq     int
	deleted []string
}

func (g *memGateway) Upload(ctx context.Context, filename string, content io.Reader) (*assets.Asset, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return &assets.Asset{
		URL: fmt.Sprintf("http://s3/media/%d-%s", g.seq, filename),
		Key: fmt.Sprintf("images/%d-%s", g.seq, filename),
	}, nil
}

func (g *memGateway) Delete(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, key)
	return nil
}

type testEnv struct {
	handler http.Handler
	repo    *memRepo
	gateway *memGateway
	issuer  *token.Issuer
	mock    sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	issuer := token.NewIssuer(&config.Config{
		AccessTokenSecret:            "test-access",
		RefreshTokenSecret:           "test-refresh",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	})
	repo := newMemRepo()
	gw := &memGateway{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := services.NewUserService(db, &memRepoManager{repo: repo}, gw,
		password.NewBcryptHasher(bcrypt.MinCost), issuer, logger)

	h := NewHandler(svc, issuer, logger)
	return &testEnv{
		handler: h.Routes("http://localhost:3000"),
		repo:    repo,
		gateway: gw,
		issuer:  issuer,
		mock:    mock,
	}
}

func (e *testEnv) seedUser(t *testing.T, id, username, email, plaintext string) *models.User {
	t.Helper()
	hash, err := password.NewBcryptHasher(bcrypt.MinCost).Hash(plaintext)
	require.NoError(t, err)
	u := &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		FullName:     "Seed User",
		PasswordHash: hash,
		AvatarURL:    "http://s3/media/seed.png",
		AvatarKey:    "images/seed.png",
	}
	e.repo.add(u)
	return u
}

func (e *testEnv) bearerFor(t *testing.T, userID string) string {
	t.Helper()
	access, err := e.issuer.IssueAccess(userID)
	require.NoError(t, err)
	return "Bearer " + access
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range mutate {
		fn(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// --- tests ---

func TestHealthcheck(t *testing.T) {
	env := newTestEnv(t)
	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/healthcheck", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(200), envelope["statusCode"])
	assert.Equal(t, "OK", envelope["message"])
}

func TestRegister_CreatesUser(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.mock.ExpectCommit()

	body, contentType := multipartBody(t,
		map[string]string{
			"fullName": "Alice Liddell",
			"email":    "alice@example.com",
			"username": "alice",
			"password": "s3cret",
		},
		map[string]string{"avatar": "avatar.png", "coverImage": "cover.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "alice", data["username"])
	assert.NotEmpty(t, data["avatar"])
	assert.NotEmpty(t, data["coverImage"])

	// secret material never crosses the wire
	raw := rec.Body.String()
	assert.NotContains(t, raw, "passwordHash")
	assert.NotContains(t, raw, "refreshToken")
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t,
		map[string]string{"username": "alice"},
		map[string]string{"avatar": "avatar.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	errs := envelope["errors"].([]any)
	assert.Contains(t, errs, "fullName")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestRegister_DuplicateReturnsConflict(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")

	body, contentType := multipartBody(t,
		map[string]string{
			"fullName": "Another Alice",
			"email":    "alice@example.com",
			"username": "alice",
			"password": "s3cret",
		},
		map[string]string{"avatar": "avatar.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_SetsSessionCookies(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "s3cret")

	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "s3cret",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])
	assert.Equal(t, "alice", data["user"].(map[string]any)["username"])

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}
	for _, name := range []string{"accessToken", "refreshToken"} {
		c, ok := byName[name]
		require.True(t, ok, "missing cookie %s", name)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}

	// the stored refresh token matches the issued one
	stored := env.repo.get("u-1")
	assert.Equal(t, data["refreshToken"], stored.RefreshToken.String)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "s3cret")

	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MissingIdentifier(t *testing.T) {
	env := newTestEnv(t)
	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthGate_RejectsMissingToken(t *testing.T) {
	env := newTestEnv(t)
	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/current", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGate_AcceptsBearerHeader(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")

	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/current", nil,
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-1")) })

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "alice", envelope["data"].(map[string]any)["username"])
}

func TestAuthGate_AcceptsCookie(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	access, err := env.issuer.IssueAccess("u-1")
	require.NoError(t, err)

	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/current", nil,
		func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "accessToken", Value: access}) })
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthGate_RejectsDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	// valid token, but no matching record
	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/current", nil,
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-gone")) })
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGate_RejectsRefreshTokenAsAccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	refresh, err := env.issuer.IssueRefresh("u-1")
	require.NoError(t, err)

	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/current", nil,
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refresh) })
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookiesAndStoredToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	tok := "active"
	require.NoError(t, env.repo.SetRefreshToken(context.Background(), "u-1", &tok))

	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/logout", nil,
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-1")) })

	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Less(t, c.MaxAge, 0, "cookie %s not expired", c.Name)
		assert.Empty(t, c.Value)
	}
	assert.False(t, env.repo.get("u-1").RefreshToken.Valid)
}

func TestRefresh_FromBody(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	presented, err := env.issuer.IssueRefresh("u-1")
	require.NoError(t, err)
	require.NoError(t, env.repo.SetRefreshToken(context.Background(), "u-1", &presented))

	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/refresh-token",
		map[string]string{"refreshToken": presented})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEqual(t, presented, data["refreshToken"])
	assert.Equal(t, data["refreshToken"], env.repo.get("u-1").RefreshToken.String)
}

func TestRefresh_FromCookie(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	presented, err := env.issuer.IssueRefresh("u-1")
	require.NoError(t, err)
	require.NoError(t, env.repo.SetRefreshToken(context.Background(), "u-1", &presented))

	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/refresh-token", nil,
		func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "refreshToken", Value: presented}) })
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRefresh_MissingToken(t *testing.T) {
	env := newTestEnv(t)
	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/refresh-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_SupersededToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	old, err := env.issuer.IssueRefresh("u-1")
	require.NoError(t, err)
	current := "newer"
	require.NoError(t, env.repo.SetRefreshToken(context.Background(), "u-1", &current))

	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/refresh-token",
		map[string]string{"refreshToken": old})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "old-pass")

	rec := doJSON(t, env.handler, http.MethodPost, "/api/v1/users/change-password",
		map[string]string{"oldPassword": "old-pass", "newPassword": "new-pass"},
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-1")) })
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the old password no longer logs in, the new one does
	rec = doJSON(t, env.handler, http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "old-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, env.handler, http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "new-pass",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListUsers_Sanitized(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	env.seedUser(t, "u-2", "bob", "bob@example.com", "pw")

	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].([]any)
	assert.Len(t, data, 2)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	env.seedUser(t, "u-2", "bob", "bob@example.com", "pw")

	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/u-2", nil,
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-1")) })
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "bob", decodeEnvelope(t, rec)["data"].(map[string]any)["username"])
}

func TestGetUserByID_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")

	rec := doJSON(t, env.handler, http.MethodGet, "/api/v1/users/ghost", nil,
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-1")) })
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")

	rec := doJSON(t, env.handler, http.MethodPatch, "/api/v1/users/",
		map[string]string{"fullName": "Alice P. Liddell", "email": "alice.p@example.com"},
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-1")) })
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Alice P. Liddell", data["fullName"])
	assert.Equal(t, "alice.p@example.com", data["email"])
}

func TestUpdateProfile_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")
	env.repo.dupEmail = true

	rec := doJSON(t, env.handler, http.MethodPatch, "/api/v1/users/",
		map[string]string{"fullName": "Alice", "email": "bob@example.com"},
		func(r *http.Request) { r.Header.Set("Authorization", env.bearerFor(t, "u-1")) })
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateAvatar_ReplacesAndDeletesOld(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u-1", "alice", "alice@example.com", "pw")

	body, contentType := multipartBody(t, nil, map[string]string{"avatar": "new.png"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", env.bearerFor(t, "u-1"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.True(t, strings.Contains(data["avatar"].(string), "new.png"))
	assert.Equal(t, []string{"images/seed.png"}, env.gateway.deleted)
}

func TestErrorEnvelope_GenericInternal(t *testing.T) {
	env := newTestEnv(t)
	// registration hits the transactional path with no sqlmock expectations,
	// so Begin fails and the handler must fall back to the generic envelope
	body, contentType := multipartBody(t,
		map[string]string{
			"fullName": "Alice",
			"email":    "alice@example.com",
			"username": "alice",
			"password": "pw",
		},
		map[string]string{"avatar": "a.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "something went wrong while registering a user", envelope["message"])
	assert.Equal(t, []any{}, envelope["errors"])
}
