package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/portfolio/internal/model"
)

const (
	CookieName  = "access_token"
	MaxAttempts = 5
)

type Config struct {
	Users           UserLookup
	Sender          Sender
	Challenges      *ChallengeStore
	Secret          string
	Issuer          string
	DeliveryTimeout time.Duration
	Now             func() time.Time
	Logger          *slog.Logger
}

// Session is the outcome of a successful second factor.
type Session struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

type Status struct {
	Logged  bool
	Email   string
	IsAdmin bool
}

// Service drives login, OTP verification and token checks.
type Service struct {
	users      UserLookup
	verifier   *Verifier
	challenges *ChallengeStore
	issuer     *Issuer
	tokens     *TokenCodec
	now        func() time.Time
	logger     *slog.Logger
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Users == nil {
		return nil, errors.New("auth: user lookup is required")
	}
	if cfg.Sender == nil {
		return nil, errors.New("auth: sender is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Challenges == nil {
		cfg.Challenges = NewChallengeStore()
	}

	tokens, err := NewTokenCodec(cfg.Secret, cfg.Issuer, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	return &Service{
		users:      cfg.Users,
		verifier:   NewVerifier(cfg.Users),
		challenges: cfg.Challenges,
		issuer:     NewIssuer(cfg.Challenges, cfg.Sender, cfg.DeliveryTimeout, cfg.Now, cfg.Logger),
		tokens:     tokens,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}, nil
}

// Login checks the password and, on success, issues a fresh challenge. A
// delivery failure is not an error here: the challenge exists and the result
// says delivery failed.
func (s *Service) Login(ctx context.Context, email, password string) (IssueResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return IssueResult{}, ErrBadRequest
	}

	_, ok, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		return IssueResult{}, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.logger.Warn("login failed", "email", normalizeEmail(email))
		return IssueResult{}, ErrInvalidCredentials
	}

	return s.issuer.Issue(ctx, email)
}

// VerifyOTP consumes the pending challenge for email and returns a session
// when code matches. The check order is: missing record, expiry, exhaustion,
// code.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (Session, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return Session{}, ErrBadRequest
	}

	if err := s.challenges.Verify(email, code, s.now()); err != nil {
		if errors.Is(err, ErrChallengeExhausted) {
			s.logger.Warn("otp attempts exhausted", "email", email)
		}
		return Session{}, err
	}

	u, err := s.users.GetByEmail(email)
	if err != nil {
		return Session{}, fmt.Errorf("verify otp: %w", err)
	}
	if u == nil {
		return Session{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("verify otp: %w", err)
	}

	s.logger.Info("login verified", "email", u.Email)
	return Session{Email: u.Email, Token: token, ExpiresAt: exp}, nil
}

// ResendOTP re-issues a challenge for an email that already has one on
// record, expired or not. Unlike Login, a delivery failure is an error.
func (s *Service) ResendOTP(ctx context.Context, email string) (IssueResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return IssueResult{}, ErrBadRequest
	}

	if _, ok := s.challenges.Get(email); !ok {
		return IssueResult{}, ErrNoPendingChallenge
	}

	res, err := s.issuer.Issue(ctx, email)
	if err != nil {
		return IssueResult{}, err
	}
	if !res.Delivered {
		return res, fmt.Errorf("%w: %v", ErrDeliveryFailure, res.DeliveryErr)
	}
	return res, nil
}

// ExtractToken prefers the session cookie and falls back to a bearer header.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return fields[1]
	}
	return ""
}

func (s *Service) resolve(r *http.Request) (*model.User, error) {
	token := ExtractToken(r)
	if token == "" {
		return nil, ErrUnauthorized
	}
	sub, err := s.tokens.Decode(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	u, err := s.users.GetByEmail(sub)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}

// Status reports who the request is logged in as. Missing or invalid tokens
// are an ordinary logged-out state, never an error.
func (s *Service) Status(ctx context.Context, r *http.Request) Status {
	u, err := s.resolve(r)
	if err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			s.logger.ErrorContext(ctx, "status lookup failed", "error", err)
		}
		return Status{}
	}
	return Status{Logged: true, Email: u.Email, IsAdmin: u.IsAdmin}
}

// Authorize returns the admin user behind the request, or ErrUnauthorized.
func (s *Service) Authorize(ctx context.Context, r *http.Request) (*model.User, error) {
	u, err := s.resolve(r)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin {
		s.logger.WarnContext(ctx, "non-admin attempted privileged call", "email", u.Email)
		return nil, ErrUnauthorized
	}
	return u, nil
}

// Peek exposes the pending challenge for development inspection only.
func (s *Service) Peek(email string) (Challenge, bool) {
	return s.challenges.Get(email)
}

// Sweep drops stale challenges and returns how many were removed.
func (s *Service) Sweep() int {
	return s.challenges.Sweep(s.now())
}
