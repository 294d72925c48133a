// Package migrations embeds the SQL migrations for the world-delta
// repository, for goose.SetBaseFS.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
