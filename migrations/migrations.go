// Package migrations embebe los scripts SQL del esquema del ledger de stock.
package migrations

import "embed"

// FS contiene los archivos *.sql en orden lexicográfico de aplicación.
//
//go:embed *.sql
var FS embed.FS
