package roundmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the round module's schema changes.
var Migrations = migrate.NewMigrations()
