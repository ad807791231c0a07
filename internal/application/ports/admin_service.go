package ports

import (
	"context"

	"drive-me-local/internal/domain/activity"
	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/domain/user_file"
)

type Overview struct {
	TotalUsers int64
	TotalFiles int64
	TotalLogs  int64
	Users      user.Users
	Files      user_file.UserFiles
	RecentLogs activity.Entries
}

type AdminService interface {
	Overview(ctx context.Context, requester *user.User) (*Overview, error)
}
