// Package migrations holds the versioned SQL schema. The files are embedded so
// the migrate command and integration tests run the same schema without a
// migrations directory on disk.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
