package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dukerupert/portfolio/internal/model"
)

type fakeUsers struct {
	users map[string]*model.User
	err   error
}

func (f *fakeUsers) GetByEmail(email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[strings.ToLower(strings.TrimSpace(email))], nil
}

func newFakeUsers(t *testing.T, email, password string, isAdmin bool) *fakeUsers {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &fakeUsers{users: map[string]*model.User{
		strings.ToLower(email): {ID: 1, Email: email, HashedPassword: hash, IsAdmin: isAdmin},
	}}
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, _ := HashPassword("changeme")
	if a == b {
		t.Error("expected different hashes for the same password")
	}
	if a == "changeme" {
		t.Error("hash must not equal plaintext")
	}
}

func TestVerifyCorrectPassword(t *testing.T) {
	v := NewVerifier(newFakeUsers(t, "a@x.com", "correct", true))

	u, ok, err := v.Verify(context.Background(), "a@x.com", "correct")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected ok = true")
	}
	if u.Email != "a@x.com" {
		t.Errorf("email = %q, want %q", u.Email, "a@x.com")
	}
}

func TestVerifyWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	v := NewVerifier(newFakeUsers(t, "a@x.com", "correct", true))

	u1, ok1, err1 := v.Verify(context.Background(), "a@x.com", "wrong")
	u2, ok2, err2 := v.Verify(context.Background(), "nobody@x.com", "correct")

	if ok1 || ok2 {
		t.Error("expected both verifications to fail")
	}
	if err1 != nil || err2 != nil {
		t.Errorf("errors = %v, %v; want nil, nil", err1, err2)
	}
	if u1 != nil || u2 != nil {
		t.Error("expected no user returned on failure")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	users := &fakeUsers{users: map[string]*model.User{
		"a@x.com": {Email: "a@x.com", HashedPassword: "not-a-bcrypt-hash"},
	}}
	_, ok, err := NewVerifier(users).Verify(context.Background(), "a@x.com", "anything")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("expected ok = false for malformed hash")
	}
}

func TestVerifyStorageError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, ok, err := NewVerifier(&fakeUsers{err: boom}).Verify(context.Background(), "a@x.com", "x")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
	if ok {
		t.Error("expected ok = false on storage error")
	}
}
