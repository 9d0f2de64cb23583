package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photoshare/internal/auth"
	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/models"
	"photoshare/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "Sup3r$ecretPass"

// testEnv bundles a server with its app and recording collaborators.
type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	store  *testutil.MemoryStore
	mailer *testutil.MailRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		Env:              "test",
		AppHost:          "http://localhost:8000",
		JWTSecret:        "test-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		CloudinaryFolder: "photoshare",
	}

	store := testutil.NewMemoryStore()
	mailer := testutil.NewMailRecorder()
	s := NewServerWithDeps(cfg, db, store, mailer)

	app := fiber.New()
	s.SetupRoutes(app)

	return &testEnv{server: s, app: app, db: db, store: store, mailer: mailer}
}

// createUser inserts a confirmed, active account directly into the database.
func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  hash,
		Role:      role,
		Confirmed: true,
		IsActive:  true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// accessToken mints a valid access token for the user.
func (e *testEnv) accessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.server.tokens.IssueAccessToken(user.Email)
	require.NoError(t, err)
	return token
}

// doJSON performs a JSON request. token may be empty for anonymous calls.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// doMultipart uploads an image via multipart form, with optional extra fields.
func (e *testEnv) doMultipart(t *testing.T, method, path string, image []byte, fields map[string]string, token string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if image != nil {
		part, err := w.CreateFormFile("file", "upload.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decode unmarshals the response body into v and closes it.
func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// uploadImage creates a post owned by user and returns it.
func (e *testEnv) uploadImage(t *testing.T, user *models.User, description, tags string) *models.Post {
	t.Helper()

	resp := e.doMultipart(t, http.MethodPost, "/api/images", testutil.PNGBytes(t),
		map[string]string{"description": description, "tags": tags},
		e.accessToken(t, user))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	decode(t, resp, &post)
	return &post
}
