package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUsers(ctx context.Context) (user.Users, error) {
	rows, err := r.db.Query(ctx, SelectUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var us Users
	for rows.Next() {
		u := new(User)

		if err = rows.Scan(
			&u.ID,
			&u.Username,
			&u.PasswordHash,
			&u.Role,

			&u.CreatedAt,
		); err != nil {
			return nil, err
		}

		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&us)
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, int64(id))
}

func (r *Repository) FetchUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByUsername, username)
}

func (r *Repository) fetchOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u := new(User)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,

		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u)
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, CountUsers).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return n, nil
}

// CreateUser relies on the unique index on username, so two concurrent
// registrations of one name cannot both succeed.
func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("create user %q: invalid role", req.Username)
	}

	u := new(User)
	err := r.db.QueryRow(
		ctx,
		InsertUser,
		req.Username, req.PasswordHash, req.Role.String(),
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,

		&u.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrDuplicateUsername
		}
		return nil, err
	}

	return fromDBModel(u)
}
