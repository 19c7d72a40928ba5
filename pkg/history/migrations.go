package history

import "embed"

// Migrations holds the schema for the transition_history table. Apply with
// pg.MigrateFS or any goose-compatible runner.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files
const MigrationsDir = "migrations"
