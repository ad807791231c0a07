package admin

import (
	"time"

	"drive-me-local/internal/interface/api/rest/dto/user"
	"drive-me-local/internal/interface/api/rest/dto/user_file"
)

type (
	LogEntry struct {
		ID        int64     `json:"id"`
		Event     string    `json:"event"`
		Timestamp time.Time `json:"timestamp"`
	}
	Overview struct {
		TotalUsers int64               `json:"total_users"`
		TotalFiles int64               `json:"total_files"`
		TotalLogs  int64               `json:"total_logs"`
		Users      user.Users          `json:"users"`
		Files      user_file.UserFiles `json:"files"`
		RecentLogs []LogEntry          `json:"recent_logs"`
		Notice     string              `json:"notice,omitempty"`
	}
)
