package user

const (
	SelectUsers = `
		SELECT id, username, password_hash, role, created_at
		FROM users
		ORDER BY id
	`
	SelectUserByID = `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`
	SelectUserByUsername = `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`
	CountUsers = `SELECT COUNT(*) FROM users`
	InsertUser = `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING
		  id, username, password_hash, role, created_at
	`
)
