package assessmentmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the assessment module's schema changes.
var Migrations = migrate.NewMigrations()
