package user_file

import (
	"time"

	"drive-me-local/internal/domain/user"
)

type (
	ID       int64
	UserFile struct {
		ID        ID
		OwnerID   user.ID
		OwnerName string

		FileName     string
		OriginalName string
		StorageKey   string
		MimeType     string
		SizeBytes    int64

		UploadedAt time.Time
	}
	UserFiles []*UserFile
)

func (uf *UserFile) OwnedBy(u *user.User) bool { return u != nil && uf.OwnerID == u.ID }
