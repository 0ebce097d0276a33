package pipelinemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating applications and application_round_progress tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS applications (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
					candidate_id UUID NOT NULL,
					candidate_name VARCHAR(200) NOT NULL,
					candidate_email VARCHAR(320) NOT NULL,
					stage VARCHAR(40) NOT NULL DEFAULT 'NEW_APPLICATION',
					status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE'
						CHECK (status IN ('ACTIVE', 'REJECTED', 'HIRED')),
					current_round_id UUID REFERENCES job_rounds(id) ON DELETE SET NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_applications_job_stage ON applications(job_id, stage);
			`); err != nil {
				return fmt.Errorf("failed to create applications table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS application_round_progress (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
					round_id UUID NOT NULL REFERENCES job_rounds(id) ON DELETE CASCADE,
					entered_by UUID,
					interview_id UUID,
					entered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT application_round_progress_pair UNIQUE (application_id, round_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create application_round_progress table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping application_round_progress and applications tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS application_round_progress;`); err != nil {
				return fmt.Errorf("failed to drop application_round_progress table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS applications;`); err != nil {
				return fmt.Errorf("failed to drop applications table: %w", err)
			}
			return nil
		})
	})
}
