package activity

import (
	"context"
	"fmt"

	"drive-me-local/internal/domain/activity"
	"drive-me-local/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) activity.Repository {
	return &Repository{db: db}
}

func (r *Repository) AppendEntry(ctx context.Context, e activity.Entry) error {
	if _, err := r.db.Exec(ctx, InsertEntry, e.Event, e.CreatedAt); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}

func (r *Repository) FetchRecent(ctx context.Context, limit int) (activity.Entries, error) {
	rows, err := r.db.Query(ctx, SelectRecent, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var es activity.Entries
	for rows.Next() {
		e := new(activity.Entry)
		if err = rows.Scan(&e.ID, &e.Event, &e.CreatedAt); err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return es, nil
}

func (r *Repository) CountEntries(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, CountEntries).Scan(&n); err != nil {
		return 0, fmt.Errorf("count log entries: %w", err)
	}

	return n, nil
}
