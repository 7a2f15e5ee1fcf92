package apictx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	// AuthUserIDKey holds the authenticated profile ID of the request.
	AuthUserIDKey ctxKey = "auth_user_id"
	// AuthRoleKey holds the resolved profile role ("admin", "editor", ...).
	AuthRoleKey ctxKey = "auth_role"
)

func AuthUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(uuid.UUID)
	return id, ok
}

func AuthRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(AuthRoleKey).(string)
	return role, ok
}
