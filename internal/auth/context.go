package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying the authenticated user ID.
func NewContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the authenticated user ID stored in ctx, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}
