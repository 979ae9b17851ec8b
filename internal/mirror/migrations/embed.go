// Package migrations embeds the goose migrations for the local mirror DB.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
