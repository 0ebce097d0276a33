package offermigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the offer module's schema changes.
var Migrations = migrate.NewMigrations()
