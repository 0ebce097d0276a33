package offermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating offers table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS offers (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
					candidate_name VARCHAR(200) NOT NULL,
					candidate_email VARCHAR(320) NOT NULL,
					status VARCHAR(20) NOT NULL DEFAULT 'DRAFT'
						CHECK (status IN ('DRAFT', 'SENT', 'ACCEPTED', 'DECLINED')),
					salary NUMERIC(14, 2) NOT NULL DEFAULT 0,
					currency VARCHAR(3) NOT NULL DEFAULT 'USD',
					salary_period VARCHAR(20) NOT NULL DEFAULT 'YEARLY',
					start_date TIMESTAMPTZ NOT NULL,
					expires_at TIMESTAMPTZ NOT NULL,
					location VARCHAR(200),
					work_arrangement VARCHAR(40),
					benefits TEXT[],
					vacation_days INTEGER NOT NULL DEFAULT 0,
					template_id VARCHAR(120),
					created_by UUID,
					sent_at TIMESTAMPTZ,
					responded_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_offers_application ON offers(application_id);
			`); err != nil {
				return fmt.Errorf("failed to create offers table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping offers table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS offers;`); err != nil {
				return fmt.Errorf("failed to drop offers table: %w", err)
			}
			return nil
		})
	})
}
