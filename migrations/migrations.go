// Package migrations embebe el DDL de PostgreSQL para aplicarlo desde los comandos y los tests.
package migrations

import "embed"

// FS contiene los archivos NNN_descripcion.sql en orden de versión.
//
//go:embed *.sql
var FS embed.FS
