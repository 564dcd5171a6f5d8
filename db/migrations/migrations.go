// Package migrations embeds the postgres schema so cmd/migration works
// without the source tree on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
