package userctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity — аутентифицированный пользователь запроса.
type Identity struct {
	UserID   uuid.UUID
	IsActive bool
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// GetUserID returns the authenticated user id from the context.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := GetIdentity(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return id.UserID, true
}
