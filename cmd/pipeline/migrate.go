package main

import (
	"fmt"
	"strings"

	assessmentmigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories/migrations"
	offermigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/repositories/migrations"
	pipelinequeue "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/queue"
	pipelinemigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories/migrations"
	roundmigrations "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

// newMigrators returns one migrator per module in dependency order. Each
// module tracks its applied migrations in its own table.
func newMigrators(db *bun.DB) []moduleMigrator {
	modules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"round", roundmigrations.Migrations},
		{"pipeline", pipelinemigrations.Migrations},
		{"assessment", assessmentmigrations.Migrations},
		{"offer", offermigrations.Migrations},
	}

	out := make([]moduleMigrator, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleMigrator{
			name: m.name,
			migrator: migrate.NewMigrator(db, m.migrations,
				migrate.WithTableName(m.name+"_bun_migrations"),
				migrate.WithLocksTableName(m.name+"_bun_migration_locks"),
			),
		})
	}
	return out
}

func findMigrator(migrators []moduleMigrator, name string) (*migrate.Migrator, bool) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, true
		}
	}
	return nil, false
}

func migrateCommand() *cli.Command {
	// withMigrators opens the database for the duration of one subcommand.
	withMigrators := func(fn func(c *cli.Context, dsn string, migrators []moduleMigrator) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			db := openDB(cfg.Postgres.DSN)
			defer db.Close()
			return fn(c, cfg.Postgres.DSN, newMigrators(db))
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, _ string, migrators []moduleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("failed to initialize migrations for module %s: %w", m.name, err)
						}
					}
					return nil
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: withMigrators(func(c *cli.Context, dsn string, migrators []moduleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Running migrations for module: %s\n", m.name)
						if err := m.migrator.Lock(c.Context); err != nil {
							return err
						}
						group, err := m.migrator.Migrate(c.Context)
						unlockErr := m.migrator.Unlock(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", m.name, err)
						}
						if unlockErr != nil {
							return unlockErr
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.name, group)
						}
					}

					fmt.Println("Running River queue migrations")
					return pipelinequeue.Migrate(c.Context, dsn)
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module",
				Action: withMigrators(func(c *cli.Context, _ string, migrators []moduleMigrator) error {
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						fmt.Printf("Rolling back migrations for module: %s\n", m.name)
						group, err := m.migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", m.name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, _ string, migrators []moduleMigrator) error {
					moduleName := c.Args().First()
					migrator, ok := findMigrator(migrators, moduleName)
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, _ string, migrators []moduleMigrator) error {
					for _, m := range migrators {
						ms, err := m.migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}
