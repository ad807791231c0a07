package user

import (
	"context"
	"errors"
)

var ErrDuplicateUsername = errors.New("username already exists")

type Repository interface {
	FetchUserByID(ctx context.Context, id ID) (*User, error)
	FetchUserByUsername(ctx context.Context, username string) (*User, error)
	FetchUsers(ctx context.Context) (Users, error)
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, req User) (*User, error)
}
