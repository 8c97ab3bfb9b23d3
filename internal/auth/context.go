package auth

import (
	"context"

	"github.com/dukerupert/portfolio/internal/model"
)

type contextKey struct{}

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*model.User)
	return u, ok && u != nil
}

func IsAdmin(ctx context.Context) bool {
	u, ok := UserFromContext(ctx)
	if !ok {
		return false
	}
	return u.IsAdmin
}
