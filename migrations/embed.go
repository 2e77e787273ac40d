// Package migrations holds the PostgreSQL schema shipped with the binary.
package migrations

import "embed"

// FS contains every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
