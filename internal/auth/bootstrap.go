package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/portfolio/internal/model"
)

type AdminCreator interface {
	CountAdmins() (int, error)
	GetByEmail(email string) (*model.User, error)
	Create(email, hashedPassword string, isAdmin bool) (*model.User, error)
}

// EnsureAdmin creates the admin account when no admin exists yet. It reports
// whether an account was created. A non-admin account already holding email
// is an error; it is never promoted.
func EnsureAdmin(ctx context.Context, users AdminCreator, email, password string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("ensure admin: %w", ErrBadRequest)
	}

	n, err := users.CountAdmins()
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	existing, err := users.GetByEmail(email)
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if existing != nil {
		return false, fmt.Errorf("ensure admin: %s exists without admin rights", existing.Email)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if _, err := users.Create(email, hash, true); err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	return true, nil
}
