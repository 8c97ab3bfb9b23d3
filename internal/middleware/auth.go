package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/portfolio/internal/auth"
	"github.com/dukerupert/portfolio/internal/model"
)

// Authorizer resolves the admin user behind a request.
type Authorizer interface {
	Authorize(ctx context.Context, r *http.Request) (*model.User, error)
}

// RequireAdmin rejects requests without a valid admin token with 401 and
// puts the resolved user into the request context otherwise.
func RequireAdmin(authz Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := authz.Authorize(r.Context(), r)
			if err != nil {
				if !errors.Is(err, auth.ErrUnauthorized) {
					logger.Error("authorize", "error", err)
					writeDetail(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				writeDetail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}
