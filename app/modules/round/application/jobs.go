package roundservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateJob registers a job posting and its anchor rounds.
func (s *RoundService) CreateJob(ctx context.Context, title, location string) (roundtypes.Job, error) {
	return run(s, ctx, "CreateJob", title, func(ctx context.Context, db bun.IDB) (results.OperationResult[roundtypes.Job, error], error) {
		if strings.TrimSpace(title) == "" {
			return results.FailureResult[roundtypes.Job, error](validationError([]string{"title cannot be empty"})), nil
		}

		job := &rounddb.Job{ID: uuid.New(), Title: title, Location: location}
		if err := s.repo.CreateJob(ctx, db, job); err != nil {
			return results.OperationResult[roundtypes.Job, error]{}, err
		}
		if _, err := s.repo.InsertFixedRounds(ctx, db, job.ID); err != nil {
			return results.OperationResult[roundtypes.Job, error]{}, err
		}
		return results.SuccessResult[roundtypes.Job, error](jobToDomain(job)), nil
	})
}

// GetJob retrieves a job by id.
func (s *RoundService) GetJob(ctx context.Context, jobID uuid.UUID) (roundtypes.Job, error) {
	return run(s, ctx, "GetJob", jobID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[roundtypes.Job, error], error) {
		job, err := s.repo.GetJob(ctx, db, jobID)
		if err != nil {
			if errors.Is(err, rounddb.ErrJobNotFound) {
				return results.FailureResult[roundtypes.Job, error](err), nil
			}
			return results.OperationResult[roundtypes.Job, error]{}, fmt.Errorf("failed to get job: %w", err)
		}
		return results.SuccessResult[roundtypes.Job, error](jobToDomain(job)), nil
	})
}

func jobToDomain(j *rounddb.Job) roundtypes.Job {
	return roundtypes.Job{ID: j.ID, Title: j.Title, Location: j.Location, CreatedAt: j.CreatedAt}
}
