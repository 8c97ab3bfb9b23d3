package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/portfolio/internal/model"
)

// UserLookup finds a user by email. It returns nil, nil when absent.
type UserLookup interface {
	GetByEmail(email string) (*model.User, error)
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

type Verifier struct {
	users UserLookup
}

func NewVerifier(users UserLookup) *Verifier {
	return &Verifier{users: users}
}

// Verify reports whether plain matches the stored hash for email. An unknown
// email and a wrong password both return false with a nil error.
func (v *Verifier) Verify(ctx context.Context, email, plain string) (*model.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	u, err := v.users.GetByEmail(email)
	if err != nil {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return nil, false, nil
	}

	// A malformed stored hash counts as a mismatch.
	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(plain)); err != nil {
		return nil, false, nil
	}
	return u, true, nil
}
