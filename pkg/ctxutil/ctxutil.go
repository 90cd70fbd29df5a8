package ctxutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

type ctxKey string

const (
	actorIDKey   ctxKey = "actor_id"
	actorRoleKey ctxKey = "actor_role"
	requestIDKey ctxKey = "request_id"
)

// WithActor stores the authenticated actor's ID and role in the context.
func WithActor(ctx context.Context, id uuid.UUID, role domain.UserRole) context.Context {
	ctx = context.WithValue(ctx, actorIDKey, id)
	return context.WithValue(ctx, actorRoleKey, role)
}

// ActorIDFromCtx extracts the actor's user ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func ActorIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ActorRoleFromCtx extracts the actor's role from the context.
func ActorRoleFromCtx(ctx context.Context) (domain.UserRole, bool) {
	role, ok := ctx.Value(actorRoleKey).(domain.UserRole)
	return role, ok
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
