package session

import "context"

// Store holds live sessions. Find returns nil, nil for unknown or expired ids
// and Delete of an unknown id is not an error.
type Store interface {
	Save(ctx context.Context, s Session) error
	Find(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
