package user

import "database/sql"

// Уникальность имени — без учёта регистра, как и в комнатах чата
const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(24) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx ON users (LOWER(username));`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
