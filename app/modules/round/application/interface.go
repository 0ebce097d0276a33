package roundservice

import (
	"context"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
)

// Service manages jobs' ordered rounds.
type Service interface {
	CreateJob(ctx context.Context, title, location string) (roundtypes.Job, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (roundtypes.Job, error)

	// EnsureFixedRounds idempotently creates the four anchor rounds of a job.
	EnsureFixedRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error)
	// ListRounds ensures the anchors exist and returns every round in ascending order.
	ListRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error)
	GetRound(ctx context.Context, roundID uuid.UUID) (roundtypes.JobRound, error)
	// ResolveRound turns an id or fixed-key reference into a concrete round.
	ResolveRound(ctx context.Context, ref roundtypes.RoundRef) (roundtypes.JobRound, error)

	CreateRound(ctx context.Context, input roundtypes.CreateRoundInput) (roundtypes.JobRound, error)
	UpdateRound(ctx context.Context, roundID uuid.UUID, input roundtypes.UpdateRoundInput) (roundtypes.JobRound, error)
	DeleteRound(ctx context.Context, roundID uuid.UUID) error
}
