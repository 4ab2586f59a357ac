// Package migrations embeds the SQLite schema migrations for the food log.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
