// Package migrations embeds the SQL schema applied by internal/dbmigrate.
package migrations

import "embed"

// FS holds the NNNNNN_description.{up,down}.sql files.
//
//go:embed *.sql
var FS embed.FS
