package utils

import (
	"context"

	"github.com/google/uuid"
)

type principalKey struct{}

// principal is the authenticated caller as resolved by the auth middleware.
type principal struct {
	id   uuid.UUID
	role string
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal{id: userID, role: role})
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := ctx.Value(principalKey{}).(principal)
	if !ok || p.id == uuid.Nil {
		return uuid.Nil, false
	}
	return p.id, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(principalKey{}).(principal)
	if !ok || p.role == "" {
		return "", false
	}
	return p.role, true
}
