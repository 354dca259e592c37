// Package migrations embeds the schema migrations applied by the server and
// the seeder via golang-migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
