package ports

import (
	"context"

	"drive-me-local/internal/domain/activity"
)

// ActivityLog.Append must never block or fail the caller.
type ActivityLog interface {
	Append(event string)
	Recent(ctx context.Context, limit int) (activity.Entries, error)
	Count(ctx context.Context) (int64, error)
}

type ActivityPublisher interface {
	Publish(ctx context.Context, e activity.Entry) error
}
