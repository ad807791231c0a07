package user_file

import "time"

type (
	UserFile struct {
		ID           int64     `json:"id"`
		OwnerID      int64     `json:"owner_id"`
		Owner        string    `json:"owner"`
		FileName     string    `json:"filename"`
		OriginalName string    `json:"original_name"`
		MimeType     string    `json:"mime_type"`
		SizeBytes    int64     `json:"size_bytes"`
		UploadedAt   time.Time `json:"uploaded_at"`
		DownloadURL  string    `json:"download_url"`
	}
	UserFiles    []UserFile
	ResponseData struct {
		Data UserFile `json:"data"`
	}
)
