// Package migrations embeds the order store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
