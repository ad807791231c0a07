package user_file

import (
	"context"

	"drive-me-local/internal/domain/user"
)

type Repository interface {
	FetchUserFiles(ctx context.Context, ownerID user.ID) (UserFiles, error)
	FetchAllFiles(ctx context.Context) (UserFiles, error)
	FetchUserFile(ctx context.Context, id ID) (*UserFile, error)
	FetchUserFileByName(ctx context.Context, ownerID user.ID, fileName string) (*UserFile, error)
	CountFiles(ctx context.Context) (int64, error)
	// UpsertUserFile keeps one row per (owner, file name); a repeated upload refreshes it.
	UpsertUserFile(ctx context.Context, req *UserFile) (*UserFile, error)
}
