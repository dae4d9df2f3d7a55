package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testPassword = "Correct-Horse-9-Battery"

// testEnv is a full server backed by an in-memory SQLite database and miniredis.
type testEnv struct {
	server *Server
	app    *fiber.App
	redis  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &config.Config{
		JWTSecret:      testSecret,
		JWTTTLHours:    1,
		Env:            "test",
		DBDriver:       database.DriverSQLite,
		DBSQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		AllowedOrigins: "http://localhost:3000",
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	return &testEnv{server: s, app: s.NewApp(), redis: mr}
}

// do sends a request and returns the status and raw body. body may be nil, a
// string (sent verbatim) or any JSON-encodable value.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// decode unmarshals a response body into T.
func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// signup registers a user through the API and returns it with its token.
func (e *testEnv) signup(t *testing.T, username string) (models.UserResponse, string) {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, status, string(body))

	auth := decode[AuthResponse](t, body)
	return auth.User, auth.Token
}

// signupAdmin registers a user and grants it the admin flag.
func (e *testEnv) signupAdmin(t *testing.T, username string) (models.UserResponse, string) {
	t.Helper()
	user, token := e.signup(t, username)
	_, err := e.server.userService.SetAdmin(context.Background(), user.ID, true)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) createCategory(t *testing.T, token, name string) models.CategoryResponse {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/categories/", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[models.CategoryResponse](t, body)
}

func (e *testEnv) createPost(t *testing.T, token, title string, categoryID uint, published bool) models.PostResponse {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/posts/", map[string]any{
		"title":       title,
		"content":     title + " content",
		"category_id": categoryID,
		"published":   published,
	}, token)
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[models.PostResponse](t, body)
}

func postTitles(posts []models.PostResponse) []string {
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	return titles
}
