package store

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name:           "sqlite",
	selectRevision: `SELECT revision FROM logger_revision WHERE id = 1`,
	selectEntries: `SELECT id, user_name, category, comment, datetime, replies, closed
		FROM logger_entries ORDER BY id DESC`,
	bumpRevision:  `UPDATE logger_revision SET revision = revision + 1 WHERE id = 1 AND revision = ?`,
	deleteEntries: `DELETE FROM logger_entries`,
	insertEntry: `INSERT INTO logger_entries (user_name, category, comment, datetime, replies, closed)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
}

// NewSQLiteStore binds a store to a SQLite database (modernc driver).
func NewSQLiteStore(db *sql.DB) *SQLStore {
	return newSQLStore(db, sqliteDialect)
}
