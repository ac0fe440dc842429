package postgres

import "embed"

// Migrations holds the schema migration files, applied at startup by
// database.RunMigrations.
//
//go:embed migrations/*.up.sql
var Migrations embed.FS
