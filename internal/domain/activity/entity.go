package activity

import "time"

type (
	Entry struct {
		ID        int64
		Event     string
		CreatedAt time.Time
	}
	Entries []*Entry
)
