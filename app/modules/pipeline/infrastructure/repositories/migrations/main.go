package pipelinemigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the pipeline module's schema changes.
var Migrations = migrate.NewMigrations()
