package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	assessmentmigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories/migrations"
	offermigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/repositories/migrations"
	pipelinequeue "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/queue"
	pipelinemigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories/migrations"
	roundmigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// appTables lists every application table, parents last.
var appTables = []string{
	"assessment_votes", "assessment_grades", "assessment_responses", "assessment_questions", "assessments",
	"offers", "automation_runs", "interviews", "application_round_progress", "applications",
	"job_rounds", "jobs",
}

// RunMigrations applies River's schema and every module's migrations in dependency order.
func RunMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	if err := pipelinequeue.Migrate(ctx, dsn); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}

	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"round", roundmigrations.Migrations},
		{"pipeline", pipelinemigrations.Migrations},
		{"assessment", assessmentmigrations.Migrations},
		{"offer", offermigrations.Migrations},
	}

	for _, mod := range orderedModules {
		migrator := migrate.NewMigrator(db, mod.migrations, migrate.WithTableName(mod.name+"_bun_migrations"),
			migrate.WithLocksTableName(mod.name+"_bun_migration_locks"))
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s migrations: %w", mod.name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
	}
	return nil
}

// CleanupDatabase truncates all application tables and queued River jobs.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		if !strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("failed to cleanup river jobs: %w", err)
		}
	}
	return nil
}
