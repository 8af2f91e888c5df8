package appfs

import "embed"

// FS holds the email templates and the SQL migrations of every supported engine.
//go:embed templates/email/* migrations/postgres/*.sql migrations/sqlite3/*.sql
var FS embed.FS
