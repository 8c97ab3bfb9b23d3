package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"
)

const (
	CodeTTL                = 5 * time.Minute
	DefaultDeliveryTimeout = 10 * time.Second
)

// Sender delivers a one-time code. A nil error means the code was accepted
// for delivery (or surfaced on the operator diagnostic channel).
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// IssueResult never carries the code itself.
type IssueResult struct {
	Delivered   bool
	Message     string
	DeliveryErr error
}

var codeMax = big.NewInt(1000000)

// GenerateCode returns a uniformly random six-digit code, zero padded.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

type Issuer struct {
	store   *ChallengeStore
	sender  Sender
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func NewIssuer(store *ChallengeStore, sender Sender, timeout time.Duration, now func() time.Time, logger *slog.Logger) *Issuer {
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Issuer{store: store, sender: sender, timeout: timeout, now: now, logger: logger}
}

// Issue stores a fresh challenge for email, replacing any previous one, then
// attempts delivery. The store lock is released before the sender is called.
// A delivery failure leaves the challenge in place and is reported in the
// result, not as an error.
func (i *Issuer) Issue(ctx context.Context, email string) (IssueResult, error) {
	code, err := GenerateCode()
	if err != nil {
		return IssueResult{}, err
	}

	i.store.Put(email, Challenge{
		Code:      code,
		ExpiresAt: i.now().Add(CodeTTL),
	})

	sendCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	if err := i.sender.SendOTP(sendCtx, normalizeEmail(email), code); err != nil {
		i.logger.Error("otp delivery failed", "email", normalizeEmail(email), "error", err)
		return IssueResult{
			Delivered:   false,
			Message:     "OTP generated but email delivery failed. Try resending.",
			DeliveryErr: err,
		}, nil
	}

	return IssueResult{
		Delivered: true,
		Message:   "OTP sent to owner email (check spam folder).",
	}, nil
}
