package auth

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrBadRequest, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrNoPendingChallenge, http.StatusBadRequest},
		{ErrChallengeExpired, http.StatusBadRequest},
		{ErrChallengeExhausted, http.StatusBadRequest},
		{ErrInvalidCode, http.StatusUnauthorized},
		{ErrDeliveryFailure, http.StatusInternalServerError},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: relay down", ErrDeliveryFailure), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrInvalidCode), http.StatusUnauthorized},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	if got := Message(errors.New("sql: connection refused")); got != "Internal server error" {
		t.Errorf("Message = %q, want generic message", got)
	}
	if got := Message(fmt.Errorf("%w: smtp timeout", ErrDeliveryFailure)); got != "Failed to send OTP email" {
		t.Errorf("Message = %q, want delivery message", got)
	}
	if got := Message(ErrInvalidCredentials); got != "Invalid credentials" {
		t.Errorf("Message = %q, want %q", got, "Invalid credentials")
	}
}
