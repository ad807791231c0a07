package user_file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/domain/user_file"
	"drive-me-local/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user_file.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUserFiles(ctx context.Context, ownerID user.ID) (user_file.UserFiles, error) {
	return r.fetchMany(ctx, SelectUserFiles, int64(ownerID))
}

func (r *Repository) FetchAllFiles(ctx context.Context) (user_file.UserFiles, error) {
	return r.fetchMany(ctx, SelectAllFiles)
}

func (r *Repository) FetchUserFile(ctx context.Context, id user_file.ID) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, SelectUserFileByID, int64(id))
}

func (r *Repository) FetchUserFileByName(
	ctx context.Context,
	ownerID user.ID,
	fileName string,
) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, SelectUserFileByName, int64(ownerID), fileName)
}

func (r *Repository) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, CountFiles).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}

	return n, nil
}

func (r *Repository) UpsertUserFile(ctx context.Context, req *user_file.UserFile) (*user_file.UserFile, error) {
	uf := new(UserFile)

	err := r.db.QueryRow(
		ctx,
		UpsertUserFile,
		int64(req.OwnerID), req.FileName, req.OriginalName, req.StorageKey, req.MimeType, req.SizeBytes,
	).Scan(scanTargets(uf)...)
	if err != nil {
		return nil, err
	}

	return fromDBModel(uf), nil
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (user_file.UserFiles, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ufs UserFiles
	for rows.Next() {
		uf := new(UserFile)

		if err = rows.Scan(scanTargets(uf)...); err != nil {
			return nil, err
		}

		ufs = append(ufs, uf)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&ufs), nil
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user_file.UserFile, error) {
	uf := new(UserFile)
	if err := r.db.QueryRow(ctx, query, args...).Scan(scanTargets(uf)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(uf), nil
}

func scanTargets(uf *UserFile) []any {
	return []any{
		&uf.ID,
		&uf.OwnerID,
		&uf.OwnerName,

		&uf.FileName,
		&uf.OriginalName,
		&uf.StorageKey,
		&uf.MimeType,
		&uf.SizeBytes,

		&uf.UploadedAt,
	}
}
