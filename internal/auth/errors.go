package auth

import (
	"errors"
	"net/http"
)

var (
	ErrBadRequest         = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPendingChallenge = errors.New("no otp requested for this email")
	ErrChallengeExpired   = errors.New("otp expired")
	ErrChallengeExhausted = errors.New("too many attempts")
	ErrInvalidCode        = errors.New("invalid otp")
	ErrDeliveryFailure    = errors.New("otp delivery failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
)

// StatusCode maps an auth error to the HTTP status reported to clients.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrNoPendingChallenge),
		errors.Is(err, ErrChallengeExpired),
		errors.Is(err, ErrChallengeExhausted):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for an auth error. Errors outside
// the auth taxonomy get a generic message so internal details never leak.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrBadRequest):
		return "Missing required fields"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrNoPendingChallenge):
		return "No OTP requested for this email"
	case errors.Is(err, ErrChallengeExpired):
		return "OTP expired"
	case errors.Is(err, ErrChallengeExhausted):
		return "Too many attempts"
	case errors.Is(err, ErrInvalidCode):
		return "Invalid OTP"
	case errors.Is(err, ErrDeliveryFailure):
		return "Failed to send OTP email"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return "Unauthorized"
	default:
		return "Internal server error"
	}
}
