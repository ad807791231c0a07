package ports

import (
	"context"
	"io"
	"mime/multipart"

	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/domain/user_file"
)

type UserFileService interface {
	RecordUpload(ctx context.Context, owner *user.User, in *multipart.FileHeader) (*user_file.UserFile, error)
	ListFor(ctx context.Context, owner *user.User) (user_file.UserFiles, error)
	ListAll(ctx context.Context, requester *user.User) (user_file.UserFiles, error)
	OpenForDownload(ctx context.Context, requester *user.User, id user_file.ID) (*user_file.UserFile, io.ReadCloser, error)
	OpenOwnByName(ctx context.Context, requester *user.User, fileName string) (*user_file.UserFile, io.ReadCloser, error)
}
