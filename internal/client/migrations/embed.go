// Package migrations embeds the SQL migrations of the local vault database.
package migrations

import "embed"

// FS holds the *.sql files applied by goose at vault startup.
//
//go:embed *.sql
var FS embed.FS
