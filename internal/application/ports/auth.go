package ports

import (
	"context"

	"drive-me-local/internal/domain/user"
)

// Auth is the session identity provider. Resolve returns nil, nil for an
// anonymous request.
type Auth interface {
	Login(ctx context.Context, username, password string) (string, *user.User, error)
	Resolve(ctx context.Context, token string) (*user.User, error)
	Logout(ctx context.Context, token string) error
}
