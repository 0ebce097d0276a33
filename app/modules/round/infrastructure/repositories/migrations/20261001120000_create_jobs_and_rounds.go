package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating jobs and job_rounds tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS jobs (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					title VARCHAR(200) NOT NULL,
					location VARCHAR(200),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create jobs table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS job_rounds (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
					name VARCHAR(120) NOT NULL,
					kind VARCHAR(20) CHECK (kind IN ('ASSESSMENT', 'INTERVIEW')),
					round_order INTEGER NOT NULL,
					is_fixed BOOLEAN NOT NULL DEFAULT FALSE,
					fixed_key VARCHAR(20) CHECK (fixed_key IN ('NEW', 'OFFER', 'HIRED', 'REJECTED')),
					assigned_role_id UUID,
					sync_permissions BOOLEAN NOT NULL DEFAULT FALSE,
					email_config JSONB NOT NULL DEFAULT '{}'::jsonb,
					offer_config JSONB NOT NULL DEFAULT '{}'::jsonb,
					assessment_config JSONB,
					interview_config JSONB,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT job_rounds_order_unique UNIQUE (job_id, round_order) DEFERRABLE INITIALLY DEFERRED,
					CONSTRAINT job_rounds_fixed_key_matches CHECK (is_fixed = (fixed_key IS NOT NULL))
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_job_rounds_fixed_key
					ON job_rounds(job_id, fixed_key) WHERE fixed_key IS NOT NULL;
			`); err != nil {
				return fmt.Errorf("failed to create job_rounds table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping job_rounds and jobs tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS job_rounds;`); err != nil {
				return fmt.Errorf("failed to drop job_rounds table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS jobs;`); err != nil {
				return fmt.Errorf("failed to drop jobs table: %w", err)
			}
			return nil
		})
	})
}
