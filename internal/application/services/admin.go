package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/domain/user_file"
)

const recentLogsLimit = 50

type AdminService struct {
	userRepository     user.Repository
	userFileRepository user_file.Repository
	activity           ports.ActivityLog
}

func NewAdminService(
	userRepository user.Repository,
	userFileRepository user_file.Repository,
	activity ports.ActivityLog,
) ports.AdminService {
	return &AdminService{
		userRepository:     userRepository,
		userFileRepository: userFileRepository,
		activity:           activity,
	}
}

func (as *AdminService) Overview(ctx context.Context, requester *user.User) (*ports.Overview, error) {
	if requester == nil {
		return nil, ErrUnauthenticated
	}
	if !requester.IsAdmin() {
		return nil, ErrForbidden
	}

	out := new(ports.Overview)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalUsers, err = as.userRepository.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalFiles, err = as.userFileRepository.CountFiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalLogs, err = as.activity.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Users, err = as.userRepository.FetchUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Files, err = as.userFileRepository.FetchAllFiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.RecentLogs, err = as.activity.Recent(gctx, recentLogsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return out, nil
}
