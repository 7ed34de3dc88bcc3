// Package migrations embeds the goose schema migrations for every supported
// dialect. Each dialect lives in its own directory of FS.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
