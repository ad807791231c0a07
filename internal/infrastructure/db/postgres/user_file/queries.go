package user_file

const (
	fileColumns = `f.id, f.owner_id, u.username, f.filename, f.original_name, f.storage_key, f.mime_type, f.file_size, f.uploaded_at`

	SelectUserFiles = `
		SELECT ` + fileColumns + `
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.owner_id = $1
		ORDER BY f.uploaded_at DESC, f.id DESC
	`
	SelectAllFiles = `
		SELECT ` + fileColumns + `
		FROM files f
		JOIN users u ON u.id = f.owner_id
		ORDER BY f.uploaded_at DESC, f.id DESC
	`
	SelectUserFileByID = `
		SELECT ` + fileColumns + `
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.id = $1
	`
	SelectUserFileByName = `
		SELECT ` + fileColumns + `
		FROM files f
		JOIN users u ON u.id = f.owner_id
		WHERE f.owner_id = $1 AND f.filename = $2
	`
	CountFiles = `SELECT COUNT(*) FROM files`

	// the CTE's RETURNING has no username, so it is joined back in
	UpsertUserFile = `
		WITH f AS (
			INSERT INTO files (owner_id, filename, original_name, storage_key, mime_type, file_size)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (owner_id, filename) DO UPDATE
			SET original_name = EXCLUDED.original_name,
			    storage_key = EXCLUDED.storage_key,
			    mime_type = EXCLUDED.mime_type,
			    file_size = EXCLUDED.file_size,
			    uploaded_at = now()
			RETURNING id, owner_id, filename, original_name, storage_key, mime_type, file_size, uploaded_at
		)
		SELECT ` + fileColumns + `
		FROM f
		JOIN users u ON u.id = f.owner_id
	`
)
