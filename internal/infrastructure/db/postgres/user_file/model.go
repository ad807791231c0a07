package user_file

import (
	"time"
)

type (
	UserFile struct {
		ID        int64
		OwnerID   int64
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
