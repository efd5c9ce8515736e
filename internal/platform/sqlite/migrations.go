package sqlite

import "embed"

// Migrations holds the goose migrations for the SQLite schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that holds the SQL files.
const MigrationsDir = "migrations"
