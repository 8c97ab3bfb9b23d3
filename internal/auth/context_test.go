package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/portfolio/internal/model"
)

func TestWithUserAndUserFromContext(t *testing.T) {
	u := &model.User{ID: 1, Email: "admin@example.com", IsAdmin: true}

	ctx := WithUser(context.Background(), u)
	got, ok := UserFromContext(ctx)
	if !ok {
		t.Fatal("expected user in context")
	}
	if got.ID != 1 {
		t.Errorf("ID = %d, want 1", got.ID)
	}
	if got.Email != "admin@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "admin@example.com")
	}
}

func TestUserFromContextMissing(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	if ok {
		t.Error("expected false for missing user")
	}
}

func TestUserFromContextNil(t *testing.T) {
	ctx := WithUser(context.Background(), nil)
	if _, ok := UserFromContext(ctx); ok {
		t.Error("expected false for nil user")
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := WithUser(context.Background(), &model.User{IsAdmin: true})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true for admin user")
	}
}

func TestIsAdminFalse(t *testing.T) {
	ctx := WithUser(context.Background(), &model.User{IsAdmin: false})
	if IsAdmin(ctx) {
		t.Error("expected IsAdmin = false for regular user")
	}
}

func TestIsAdminMissing(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("expected IsAdmin = false for missing context")
	}
}
