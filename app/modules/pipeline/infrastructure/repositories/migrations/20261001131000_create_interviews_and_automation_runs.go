package pipelinemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating interviews and automation_runs tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS interviews (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
					round_id UUID NOT NULL REFERENCES job_rounds(id) ON DELETE CASCADE,
					scheduled_at TIMESTAMPTZ NOT NULL,
					duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
					format VARCHAR(20) NOT NULL CHECK (format IN ('VIDEO', 'PHONE', 'ONSITE')),
					location VARCHAR(200),
					meeting_link TEXT,
					status VARCHAR(20) NOT NULL DEFAULT 'SCHEDULED'
						CHECK (status IN ('SCHEDULED', 'RESCHEDULED', 'IN_PROGRESS', 'CANCELLED', 'COMPLETED', 'NO_SHOW')),
					is_auto_scheduled BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_interviews_open_pair
					ON interviews(application_id, round_id)
					WHERE status IN ('SCHEDULED', 'RESCHEDULED', 'IN_PROGRESS');
			`); err != nil {
				return fmt.Errorf("failed to create interviews table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS automation_runs (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
					round_id UUID NOT NULL,
					dispatcher VARCHAR(40) NOT NULL,
					outcome VARCHAR(20) NOT NULL CHECK (outcome IN ('SUCCEEDED', 'SKIPPED', 'FAILED')),
					detail TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_automation_runs_application
					ON automation_runs(application_id, created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create automation_runs table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping automation_runs and interviews tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS automation_runs;`); err != nil {
				return fmt.Errorf("failed to drop automation_runs table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS interviews;`); err != nil {
				return fmt.Errorf("failed to drop interviews table: %w", err)
			}
			return nil
		})
	})
}
