package session

import (
	"time"

	"drive-me-local/internal/domain/user"
)

type Session struct {
	ID        string    `json:"id"`
	UserID    user.ID   `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
