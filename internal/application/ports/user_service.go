package ports

import (
	"context"

	"drive-me-local/internal/domain/user"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*user.User, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}
