package admin

import (
	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/domain/activity"
	"drive-me-local/internal/interface/api/rest/dto/user"
	"drive-me-local/internal/interface/api/rest/dto/user_file"
)

func ToResponseOverview(o ports.Overview) Overview {
	return Overview{
		TotalUsers: o.TotalUsers,
		TotalFiles: o.TotalFiles,
		TotalLogs:  o.TotalLogs,
		Users:      user.ToResponseUsers(o.Users),
		Files:      user_file.ToResponseUserFiles(o.Files),
		RecentLogs: toLogEntries(o.RecentLogs),
	}
}

func toLogEntries(es activity.Entries) []LogEntry {
	out := make([]LogEntry, len(es))
	for idx, e := range es {
		out[idx] = LogEntry{ID: e.ID, Event: e.Event, Timestamp: e.CreatedAt}
	}

	return out
}
