package assessmentdb

import (
	"context"
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists assessments and everything hanging off them.
type Repository interface {
	// Create inserts the assessment with its question snapshot. It returns
	// ErrOpenAssessmentExists when another non-expired assessment holds the pair.
	Create(ctx context.Context, db bun.IDB, assessment *Assessment, questions []*Question) (assessmenttypes.Assessment, error)
	// FindOpen returns the non-expired assessment for the pair, or nil.
	FindOpen(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID) (*assessmenttypes.Assessment, error)
	// Get loads the assessment with questions, responses, grades and votes.
	Get(ctx context.Context, db bun.IDB, id uuid.UUID) (assessmenttypes.Assessment, error)
	GetByToken(ctx context.Context, db bun.IDB, token string) (assessmenttypes.Assessment, error)

	// SetStatus moves the assessment from one of from to to. It returns
	// ErrStatusConflict when the current status is not in from.
	SetStatus(ctx context.Context, db bun.IDB, id uuid.UUID, from []assessmenttypes.Status, to assessmenttypes.Status, at time.Time) error
	// Complete writes results, status and completed_at in one statement,
	// keeping an existing completed_at. It returns ErrAlreadyFinalized when
	// results were already written and ErrExpired for expired assessments.
	Complete(ctx context.Context, db bun.IDB, id uuid.UUID, results assessmenttypes.Results, at time.Time) error

	UpsertResponse(ctx context.Context, db bun.IDB, assessmentID, questionID uuid.UUID, answer string, at time.Time) (assessmenttypes.Response, error)
	UpsertGrade(ctx context.Context, db bun.IDB, grade assessmenttypes.Grade) (assessmenttypes.Grade, error)
	UpsertVote(ctx context.Context, db bun.IDB, assessmentID uuid.UUID, vote assessmenttypes.Vote) (assessmenttypes.Vote, error)
}
