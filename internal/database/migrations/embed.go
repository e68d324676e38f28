package migrations

import "embed"

// FS holds the per-dialect schema migrations, one directory per driver.
//
//go:embed mysql/*.sql sqlite/*.sql
var FS embed.FS
