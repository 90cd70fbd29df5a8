package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
	"github.com/peerxp/peerxp-backend/pkg/ctxutil"
)

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name    string
		ctx     context.Context
		wantErr bool
	}{
		{
			name:    "admin actor",
			ctx:     ctxutil.WithActor(context.Background(), uuid.New(), domain.UserRoleAdmin),
			wantErr: false,
		},
		{
			name:    "regular user",
			ctx:     ctxutil.WithActor(context.Background(), uuid.New(), domain.UserRoleUser),
			wantErr: true,
		},
		{
			name:    "reviewer",
			ctx:     ctxutil.WithActor(context.Background(), uuid.New(), domain.UserRoleReviewer),
			wantErr: true,
		},
		{
			name:    "anonymous",
			ctx:     context.Background(),
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireAdmin(tc.ctx)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrForbidden) {
					t.Errorf("expected ErrForbidden, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
