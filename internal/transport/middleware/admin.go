package middleware

import (
	"context"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden if the context actor is not an
// admin. Use inside handlers, not as HTTP middleware.
func RequireAdmin(ctx context.Context) error {
	role, ok := ctxutil.ActorRoleFromCtx(ctx)
	if !ok || role != domain.UserRoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
