// Package migrations embeds the SQL migration files so the server and the
// integration tests can apply them through the goose provider API.
package migrations

import "embed"

// FS holds the *.sql migrations, applied in file-name order.
//
//go:embed *.sql
var FS embed.FS
