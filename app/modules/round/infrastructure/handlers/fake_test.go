package roundhandlers

import (
	"context"

	roundservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/application"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
)

// FakeService is a programmable roundservice.Service.
type FakeService struct {
	CreateJobFunc         func(ctx context.Context, title, location string) (roundtypes.Job, error)
	GetJobFunc            func(ctx context.Context, jobID uuid.UUID) (roundtypes.Job, error)
	EnsureFixedRoundsFunc func(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error)
	ListRoundsFunc        func(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error)
	GetRoundFunc          func(ctx context.Context, roundID uuid.UUID) (roundtypes.JobRound, error)
	ResolveRoundFunc      func(ctx context.Context, ref roundtypes.RoundRef) (roundtypes.JobRound, error)
	CreateRoundFunc       func(ctx context.Context, input roundtypes.CreateRoundInput) (roundtypes.JobRound, error)
	UpdateRoundFunc       func(ctx context.Context, roundID uuid.UUID, input roundtypes.UpdateRoundInput) (roundtypes.JobRound, error)
	DeleteRoundFunc       func(ctx context.Context, roundID uuid.UUID) error
}

func (f *FakeService) CreateJob(ctx context.Context, title, location string) (roundtypes.Job, error) {
	if f.CreateJobFunc != nil {
		return f.CreateJobFunc(ctx, title, location)
	}
	return roundtypes.Job{}, nil
}

func (f *FakeService) GetJob(ctx context.Context, jobID uuid.UUID) (roundtypes.Job, error) {
	if f.GetJobFunc != nil {
		return f.GetJobFunc(ctx, jobID)
	}
	return roundtypes.Job{}, nil
}

func (f *FakeService) EnsureFixedRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error) {
	if f.EnsureFixedRoundsFunc != nil {
		return f.EnsureFixedRoundsFunc(ctx, jobID)
	}
	return nil, nil
}

func (f *FakeService) ListRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error) {
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, jobID)
	}
	return nil, nil
}

func (f *FakeService) GetRound(ctx context.Context, roundID uuid.UUID) (roundtypes.JobRound, error) {
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, roundID)
	}
	return roundtypes.JobRound{}, nil
}

func (f *FakeService) ResolveRound(ctx context.Context, ref roundtypes.RoundRef) (roundtypes.JobRound, error) {
	if f.ResolveRoundFunc != nil {
		return f.ResolveRoundFunc(ctx, ref)
	}
	return roundtypes.JobRound{}, nil
}

func (f *FakeService) CreateRound(ctx context.Context, input roundtypes.CreateRoundInput) (roundtypes.JobRound, error) {
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, input)
	}
	return roundtypes.JobRound{}, nil
}

func (f *FakeService) UpdateRound(ctx context.Context, roundID uuid.UUID, input roundtypes.UpdateRoundInput) (roundtypes.JobRound, error) {
	if f.UpdateRoundFunc != nil {
		return f.UpdateRoundFunc(ctx, roundID, input)
	}
	return roundtypes.JobRound{}, nil
}

func (f *FakeService) DeleteRound(ctx context.Context, roundID uuid.UUID) error {
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, roundID)
	}
	return nil
}

var _ roundservice.Service = (*FakeService)(nil)
