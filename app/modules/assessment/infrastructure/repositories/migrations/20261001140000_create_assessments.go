package assessmentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating assessment tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS assessments (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
					round_id UUID NOT NULL REFERENCES job_rounds(id) ON DELETE CASCADE,
					candidate_id UUID NOT NULL,
					job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
					status VARCHAR(30) NOT NULL DEFAULT 'INVITED'
						CHECK (status IN ('PENDING_INVITATION', 'INVITED', 'IN_PROGRESS', 'COMPLETED', 'EXPIRED')),
					token TEXT NOT NULL UNIQUE,
					expires_at TIMESTAMPTZ,
					pass_threshold NUMERIC(6, 2) NOT NULL DEFAULT 70,
					results JSONB,
					started_at TIMESTAMPTZ,
					completed_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_assessments_open_pair
					ON assessments(application_id, round_id)
					WHERE status <> 'EXPIRED';
			`); err != nil {
				return fmt.Errorf("failed to create assessments table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS assessment_questions (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					assessment_id UUID NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
					position INTEGER NOT NULL,
					text TEXT NOT NULL,
					type VARCHAR(40) NOT NULL,
					options TEXT[],
					points NUMERIC(8, 2) NOT NULL DEFAULT 0
				);
				CREATE INDEX IF NOT EXISTS idx_assessment_questions_assessment
					ON assessment_questions(assessment_id, position);
			`); err != nil {
				return fmt.Errorf("failed to create assessment_questions table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS assessment_responses (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					assessment_id UUID NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
					question_id UUID NOT NULL REFERENCES assessment_questions(id) ON DELETE CASCADE,
					answer TEXT NOT NULL DEFAULT '',
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT assessment_responses_question UNIQUE (assessment_id, question_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create assessment_responses table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS assessment_grades (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					response_id UUID NOT NULL REFERENCES assessment_responses(id) ON DELETE CASCADE,
					reviewer_id UUID NOT NULL,
					score NUMERIC(8, 2),
					feedback TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT assessment_grades_response UNIQUE (response_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create assessment_grades table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS assessment_votes (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					assessment_id UUID NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
					reviewer_id UUID NOT NULL,
					decision VARCHAR(10) NOT NULL CHECK (decision IN ('APPROVE', 'REJECT')),
					comment TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT assessment_votes_reviewer UNIQUE (assessment_id, reviewer_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create assessment_votes table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping assessment tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range []string{"assessment_votes", "assessment_grades", "assessment_responses", "assessment_questions", "assessments"} {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+";"); err != nil {
					return fmt.Errorf("failed to drop %s table: %w", table, err)
				}
			}
			return nil
		})
	})
}
