package user

import "time"

type (
	User struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
	}
	Users        []User
	ResponseData struct {
		Data User `json:"data"`
	}
)
