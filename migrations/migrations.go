// Package migrations embeds the goose migrations of the Postgres store.
package migrations

import "embed"

// FS holds the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
