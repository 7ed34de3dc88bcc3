package store

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	name:           "postgres",
	selectRevision: `SELECT revision FROM logger_revision WHERE id = 1`,
	selectEntries: `SELECT id, user_name, category, comment, datetime, replies, closed
		FROM logger_entries ORDER BY id DESC`,
	bumpRevision:  `UPDATE logger_revision SET revision = revision + 1 WHERE id = 1 AND revision = $1`,
	deleteEntries: `DELETE FROM logger_entries`,
	insertEntry: `INSERT INTO logger_entries (user_name, category, comment, datetime, replies, closed)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		RETURNING id`,
}

// NewPostgresStore binds a store to a PostgreSQL pool opened with either the
// "pgx" or the "postgres" (lib/pq) driver.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return newSQLStore(db, postgresDialect)
}
