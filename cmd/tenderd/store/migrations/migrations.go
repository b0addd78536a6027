package migrations

import "embed"

// FS contains the tenderd postgres migrations.
//go:embed *.sql
var FS embed.FS
