package pipelineservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
)

// automationJob is the state one dispatcher works from.
type automationJob struct {
	app     pipelinetypes.Application
	round   roundtypes.JobRound
	actorID uuid.UUID
	// now is the transition time, not the time the dispatcher happens to run.
	now time.Time
}

// dispatchFunc reports SUCCEEDED or SKIPPED with a detail, or an error.
type dispatchFunc func(ctx context.Context, job automationJob) (pipelinetypes.Outcome, string, error)

type automationStep struct {
	dispatcher pipelinetypes.Dispatcher
	run        dispatchFunc
}

// automationFor lists the dispatchers a round triggers. Every fixed key and
// every kind gets an explicit branch.
func (s *PipelineService) automationFor(round roundtypes.JobRound) []automationStep {
	var steps []automationStep
	if round.IsFixed {
		switch round.FixedKey {
		case roundtypes.FixedOffer:
			steps = append(steps, automationStep{pipelinetypes.DispatcherOffer, s.dispatchOffer})
		case roundtypes.FixedNew, roundtypes.FixedHired, roundtypes.FixedRejected:
		default:
			s.logger.Warn("No automation for unknown fixed key", slog.String("fixed_key", string(round.FixedKey)))
		}
	} else {
		switch round.Kind {
		case roundtypes.KindAssessment:
			steps = append(steps, automationStep{pipelinetypes.DispatcherAssessment, s.dispatchAssessment})
		case roundtypes.KindInterview:
			steps = append(steps, automationStep{pipelinetypes.DispatcherInterview, s.dispatchInterview})
		default:
			s.logger.Warn("No automation for unknown round kind", slog.String("kind", string(round.Kind)))
		}
	}
	if round.EmailConfig.Enabled && round.EmailConfig.TemplateID != "" {
		steps = append(steps, automationStep{pipelinetypes.DispatcherStageEmail, s.dispatchStageEmail})
	}
	return steps
}

// Dispatch runs every dispatcher the task's round triggers. Dispatcher
// failures are logged and audited; only failing to load the transition is
// returned, so a durable runner can retry it.
func (s *PipelineService) Dispatch(ctx context.Context, task pipelinetypes.AutomationTask) error {
	_, err := call(s, ctx, "Dispatch", task.ApplicationID.String(), func(ctx context.Context) (results.OperationResult[struct{}, error], error) {
		app, err := s.repo.GetApplication(ctx, nil, task.ApplicationID)
		if err != nil {
			if errors.Is(err, pipelinedb.ErrApplicationNotFound) {
				return results.FailureResult[struct{}, error](err), nil
			}
			return results.OperationResult[struct{}, error]{}, err
		}
		round, err := s.rounds.ResolveRound(ctx, roundtypes.RefByID(task.RoundID))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return results.FailureResult[struct{}, error](err), nil
			}
			return results.OperationResult[struct{}, error]{}, fmt.Errorf("failed to load round: %w", err)
		}

		now := task.RequestedAt.UTC()
		if task.RequestedAt.IsZero() {
			now = s.clock.NowUTC()
		}
		job := automationJob{app: app, round: round, actorID: task.ActorID, now: now}
		for _, step := range s.automationFor(round) {
			s.runDispatcher(ctx, job, step)
		}
		return results.SuccessResult[struct{}, error](struct{}{}), nil
	})
	if apperrors.IsDomain(err) {
		// The application or round is gone; retrying cannot help.
		return nil
	}
	return err
}

func (s *PipelineService) runDispatcher(ctx context.Context, job automationJob, step automationStep) {
	outcome, detail, err := func() (outcome pipelinetypes.Outcome, detail string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in %s: %v", step.dispatcher, r)
			}
		}()
		return step.run(ctx, job)
	}()

	attrs := []any{
		slog.String("application_id", job.app.ID.String()),
		slog.String("round_id", job.round.ID.String()),
		slog.String("dispatcher", string(step.dispatcher)),
	}
	if err != nil {
		outcome, detail = pipelinetypes.OutcomeFailed, err.Error()
		s.metrics.RecordAutomationFailure(ctx, string(step.dispatcher))
		s.logger.ErrorContext(ctx, "Automation failed", append(attrs, slog.Any("error", err))...)
	} else {
		s.logger.InfoContext(ctx, "Automation finished", append(attrs, slog.String("outcome", string(outcome)), slog.String("detail", detail))...)
	}

	if err := s.repo.RecordAutomationRun(ctx, nil, pipelinetypes.AutomationRun{
		ID:            uuid.New(),
		ApplicationID: job.app.ID,
		RoundID:       job.round.ID,
		Dispatcher:    step.dispatcher,
		Outcome:       outcome,
		Detail:        detail,
		CreatedAt:     s.clock.NowUTC(),
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to record automation run", append(attrs, slog.Any("error", err))...)
	}
}

func skipped(detail string) (pipelinetypes.Outcome, string, error) {
	return pipelinetypes.OutcomeSkipped, detail, nil
}

func succeeded(detail string) (pipelinetypes.Outcome, string, error) {
	return pipelinetypes.OutcomeSucceeded, detail, nil
}
