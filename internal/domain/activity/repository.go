package activity

import (
	"context"
)

// Repository is append-only.
type Repository interface {
	AppendEntry(ctx context.Context, e Entry) error
	FetchRecent(ctx context.Context, limit int) (Entries, error)
	CountEntries(ctx context.Context) (int64, error)
}
