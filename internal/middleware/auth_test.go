package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/portfolio/internal/auth"
	"github.com/dukerupert/portfolio/internal/model"
)

type fakeAuthorizer struct {
	user *model.User
	err  error
}

func (f fakeAuthorizer) Authorize(ctx context.Context, r *http.Request) (*model.User, error) {
	return f.user, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAdminRejects(t *testing.T) {
	handler := RequireAdmin(fakeAuthorizer{err: auth.ErrUnauthorized}, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("POST", "/content/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["detail"] != "Unauthorized" {
		t.Errorf("detail = %q, want %q", body["detail"], "Unauthorized")
	}
}

func TestRequireAdminStorageError(t *testing.T) {
	handler := RequireAdmin(fakeAuthorizer{err: errors.New("db down")}, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRequireAdminPopulatesContext(t *testing.T) {
	admin := &model.User{ID: 1, Email: "admin@example.com", IsAdmin: true}

	var got *model.User
	handler := RequireAdmin(fakeAuthorizer{user: admin}, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got == nil || got.Email != "admin@example.com" {
		t.Errorf("context user = %+v, want admin", got)
	}
}
