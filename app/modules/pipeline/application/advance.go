package pipelineservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrCrossJobRound is returned when the target round belongs to another job.
var ErrCrossJobRound = fmt.Errorf("round belongs to a different job: %w", apperrors.ErrForbidden)

type applicationResult = results.OperationResult[pipelinetypes.Application, error]

func applicationFailure(err error) (applicationResult, error) {
	return results.FailureResult[pipelinetypes.Application, error](err), nil
}

// transition is what Advance hands over to the post-commit steps.
type transition struct {
	app   pipelinetypes.Application
	round roundtypes.JobRound
}

// Advance moves an application into a round.
func (s *PipelineService) Advance(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error) {
	var round roundtypes.JobRound
	app, err := run(s, ctx, "Advance", req.ApplicationID.String(), func(ctx context.Context, db bun.IDB) (applicationResult, error) {
		app, err := s.repo.GetApplication(ctx, db, req.ApplicationID)
		if err != nil {
			if errors.Is(err, pipelinedb.ErrApplicationNotFound) {
				return applicationFailure(err)
			}
			return applicationResult{}, fmt.Errorf("failed to load application: %w", err)
		}

		round, err = s.rounds.ResolveRound(ctx, req.Round)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return applicationFailure(err)
			}
			return applicationResult{}, fmt.Errorf("failed to resolve round %s: %w", req.Round, err)
		}
		if round.JobID != app.JobID {
			return applicationFailure(ErrCrossJobRound)
		}

		now := s.clock.NowUTC()
		var actor *uuid.UUID
		if req.ActorID != uuid.Nil {
			actor = &req.ActorID
		}
		if _, err := s.repo.UpsertProgress(ctx, db, app.ID, round.ID, actor, now); err != nil {
			return applicationResult{}, err
		}

		updated, err := s.repo.UpdateApplicationStage(ctx, db, app.ID, pipelinedb.StageUpdate{
			Stage:          roundtypes.StageFor(round),
			Status:         pipelinetypes.StatusFor(round),
			CurrentRoundID: round.ID,
			At:             now,
		})
		if err != nil {
			return applicationResult{}, err
		}
		return results.SuccessResult[pipelinetypes.Application, error](updated), nil
	})
	if err != nil {
		return pipelinetypes.Application{}, err
	}

	s.afterCommit(ctx, transition{app: app, round: round}, req)
	return app, nil
}

// afterCommit runs once the transition is durable. Nothing here can fail Advance.
func (s *PipelineService) afterCommit(ctx context.Context, t transition, req pipelinetypes.AdvanceRequest) {
	s.metrics.RecordTransition(ctx, string(t.app.Stage))

	if err := s.events.applicationAdvanced(ctx, pipelinetypes.ApplicationAdvancedPayload{
		ApplicationID: t.app.ID,
		JobID:         t.app.JobID,
		RoundID:       t.round.ID,
		Stage:         t.app.Stage,
		Status:        t.app.Status,
		ActorID:       req.ActorID,
		OccurredAt:    t.app.UpdatedAt,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish application advanced event",
			slog.String("application_id", t.app.ID.String()),
			slog.Any("error", err),
		)
	}

	if req.SkipAutomation {
		return
	}
	task := pipelinetypes.AutomationTask{
		ApplicationID: t.app.ID,
		RoundID:       t.round.ID,
		ActorID:       req.ActorID,
		RequestedAt:   s.clock.NowUTC(),
	}
	if err := s.runner.Submit(ctx, task); err != nil {
		s.logger.ErrorContext(ctx, "Failed to submit automation",
			slog.String("application_id", t.app.ID.String()),
			slog.String("round_id", t.round.ID.String()),
			slog.Any("error", err),
		)
	}
}

// Reject moves the application into its job's REJECTED round.
func (s *PipelineService) Reject(ctx context.Context, applicationID, actorID uuid.UUID) (pipelinetypes.Application, error) {
	app, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return pipelinetypes.Application{}, err
	}
	return s.Advance(ctx, pipelinetypes.AdvanceRequest{
		ApplicationID: applicationID,
		Round:         roundtypes.RefByFixedKey(app.JobID, roundtypes.FixedRejected),
		ActorID:       actorID,
	})
}

func validateNewApplication(input pipelinetypes.NewApplicationInput) []string {
	var errs []string
	if input.JobID == uuid.Nil {
		errs = append(errs, "job id is required")
	}
	if strings.TrimSpace(input.CandidateName) == "" {
		errs = append(errs, "candidate name is required")
	}
	if !strings.Contains(input.CandidateEmail, "@") {
		errs = append(errs, "candidate email is invalid")
	}
	return errs
}

// CreateApplication registers the candidate and places the application in
// the job's NEW round.
func (s *PipelineService) CreateApplication(ctx context.Context, input pipelinetypes.NewApplicationInput, actorID uuid.UUID) (pipelinetypes.Application, error) {
	created, err := call(s, ctx, "CreateApplication", input.JobID.String(), func(ctx context.Context) (applicationResult, error) {
		if errs := validateNewApplication(input); len(errs) > 0 {
			return applicationFailure(fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, strings.Join(errs, "; ")))
		}
		// Resolving NEW both checks the job and creates its anchors.
		newRound, err := s.rounds.ResolveRound(ctx, roundtypes.RefByFixedKey(input.JobID, roundtypes.FixedNew))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return applicationFailure(err)
			}
			return applicationResult{}, fmt.Errorf("failed to resolve NEW round: %w", err)
		}

		candidateID := input.CandidateID
		if candidateID == uuid.Nil {
			candidateID = uuid.New()
		}
		now := s.clock.NowUTC()
		app, err := s.repo.CreateApplication(ctx, nil, &pipelinedb.Application{
			ID:             uuid.New(),
			JobID:          input.JobID,
			CandidateID:    candidateID,
			CandidateName:  strings.TrimSpace(input.CandidateName),
			CandidateEmail: strings.TrimSpace(input.CandidateEmail),
			Stage:          roundtypes.StageFor(newRound),
			Status:         pipelinetypes.StatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return applicationResult{}, err
		}
		return results.SuccessResult[pipelinetypes.Application, error](app), nil
	})
	if err != nil {
		return pipelinetypes.Application{}, err
	}

	return s.Advance(ctx, pipelinetypes.AdvanceRequest{
		ApplicationID: created.ID,
		Round:         roundtypes.RefByFixedKey(created.JobID, roundtypes.FixedNew),
		ActorID:       actorID,
	})
}

func (s *PipelineService) GetApplication(ctx context.Context, applicationID uuid.UUID) (pipelinetypes.Application, error) {
	return call(s, ctx, "GetApplication", applicationID.String(), func(ctx context.Context) (applicationResult, error) {
		app, err := s.repo.GetApplication(ctx, nil, applicationID)
		if err != nil {
			if errors.Is(err, pipelinedb.ErrApplicationNotFound) {
				return applicationFailure(err)
			}
			return applicationResult{}, err
		}
		return results.SuccessResult[pipelinetypes.Application, error](app), nil
	})
}

func (s *PipelineService) ListApplications(ctx context.Context, jobID uuid.UUID) ([]pipelinetypes.Application, error) {
	return call(s, ctx, "ListApplications", jobID.String(), func(ctx context.Context) (results.OperationResult[[]pipelinetypes.Application, error], error) {
		apps, err := s.repo.ListApplicationsByJob(ctx, nil, jobID)
		if err != nil {
			return results.OperationResult[[]pipelinetypes.Application, error]{}, err
		}
		return results.SuccessResult[[]pipelinetypes.Application, error](apps), nil
	})
}

func (s *PipelineService) ListProgress(ctx context.Context, applicationID uuid.UUID) ([]pipelinetypes.RoundProgress, error) {
	return call(s, ctx, "ListProgress", applicationID.String(), func(ctx context.Context) (results.OperationResult[[]pipelinetypes.RoundProgress, error], error) {
		progress, err := s.repo.ListProgress(ctx, nil, applicationID)
		if err != nil {
			return results.OperationResult[[]pipelinetypes.RoundProgress, error]{}, err
		}
		return results.SuccessResult[[]pipelinetypes.RoundProgress, error](progress), nil
	})
}

// ListAutomationRuns is the audit trail of dispatcher outcomes, newest first.
func (s *PipelineService) ListAutomationRuns(ctx context.Context, applicationID uuid.UUID) ([]pipelinetypes.AutomationRun, error) {
	return call(s, ctx, "ListAutomationRuns", applicationID.String(), func(ctx context.Context) (results.OperationResult[[]pipelinetypes.AutomationRun, error], error) {
		runs, err := s.repo.ListAutomationRuns(ctx, nil, applicationID)
		if err != nil {
			return results.OperationResult[[]pipelinetypes.AutomationRun, error]{}, err
		}
		return results.SuccessResult[[]pipelinetypes.AutomationRun, error](runs), nil
	})
}
