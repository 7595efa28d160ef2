// ABOUTME: Test helpers and server-level tests for the HTTP API.
// ABOUTME: Every test runs against a fresh SQLite database and a stub model.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/birivibe/birivibe/internal/logging"
	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	reply string
	err   error
}

func (m *stubModel) Generate(context.Context, string) (string, error) {
	return m.reply, m.err
}

func at(day, hour int) time.Time {
	return time.Date(2026, 1, day, hour, 0, 0, 0, time.Local)
}

var testNow = at(10, 12)

type testEnv struct {
	srv   *Server
	db    *storage.DB
	model *stubModel
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "birivibe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	model := &stubModel{}
	srv := NewServer(db, model, logging.Discard(), Options{
		UserEmail: "test@example.com",
		UserName:  "Test User",
	})
	srv.now = func() time.Time { return testNow }
	return &testEnv{srv: srv, db: db, model: model}
}

func (e *testEnv) user(t *testing.T) *models.User {
	t.Helper()
	u, err := e.db.EnsureUser(context.Background(), "test@example.com", "Test User")
	require.NoError(t, err)
	return u
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestDefaultUserCreatedOnce(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodGet, "/api/habits", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	users, err := env.db.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "test@example.com", users[0].Email)
}

func TestMalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/habits", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "invalid request body")
}

func TestUnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/api/habits/00000000-0000-4000-8000-000000000000",
		"/api/routines/deadbeef",
		"/api/goals/deadbeef",
		"/api/workouts/deadbeef",
		"/api/rituals/deadbeef",
	} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "birivibe.db"))
	require.NoError(t, err)
	defer db.Close()

	srv := NewServer(db, &stubModel{}, logging.Discard(), Options{
		Addr:      "127.0.0.1:0",
		UserEmail: "test@example.com",
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
