package user

import (
	"time"
)

type (
	ID   int64
	User struct {
		ID           ID
		Username     string
		PasswordHash string
		Role         Role

		CreatedAt time.Time
	}
	Users []*User
)

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
