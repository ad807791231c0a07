package activity

const (
	InsertEntry  = `INSERT INTO logs (event, created_at) VALUES ($1, $2)`
	SelectRecent = `
		SELECT id, event, created_at
		FROM logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	CountEntries = `SELECT COUNT(*) FROM logs`
)
