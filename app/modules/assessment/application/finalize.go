package assessmentservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/eventbus"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// verdict is what Finalize hands to the follow-through step.
type verdict struct {
	assessment assessmenttypes.Assessment
	cfg        *roundtypes.AssessmentConfig
	results    assessmenttypes.Results
}

type verdictResult = results.OperationResult[verdict, error]

func (s *AssessmentService) Finalize(ctx context.Context, assessmentID, actorID uuid.UUID) (assessmenttypes.FinalizeResult, error) {
	v, err := run(s, ctx, "Finalize", assessmentID.String(), func(ctx context.Context, db bun.IDB) (verdictResult, error) {
		a, err := s.loadOpenForReview(ctx, db, assessmentID)
		if err != nil {
			return domainFailure[verdict](err)
		}

		cfg, err := s.roundConfig(ctx, a.RoundID)
		if err != nil {
			return verdictResult{}, err
		}
		res := assessmenttypes.Evaluate(a, cfg, s.cfg.DefaultPassThreshold)

		// The write is guarded on results IS NULL, so a concurrent finalize
		// loses here rather than overwriting the verdict.
		if err := s.repo.Complete(ctx, db, a.ID, res, s.clock.NowUTC()); err != nil {
			return domainFailure[verdict](err)
		}
		return success(verdict{assessment: a, cfg: cfg, results: res})
	})
	if err != nil {
		return assessmenttypes.FinalizeResult{}, err
	}

	s.metrics.RecordVerdict(ctx, string(v.results.Mode), v.results.Passed)
	s.logger.InfoContext(ctx, "Assessment finalized",
		slog.String("assessment_id", v.assessment.ID.String()),
		slog.String("application_id", v.assessment.ApplicationID.String()),
		slog.String("mode", string(v.results.Mode)),
		slog.Bool("passed", v.results.Passed),
	)
	s.publishFinalized(ctx, v)
	s.followThrough(ctx, v, actorID)

	return assessmenttypes.FinalizeResult{Success: true, Passed: v.results.Passed}, nil
}

// roundConfig returns the round's assessment configuration, or nil when the
// round is gone or has none.
func (s *AssessmentService) roundConfig(ctx context.Context, roundID uuid.UUID) (*roundtypes.AssessmentConfig, error) {
	round, err := s.rounds.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load round %s: %w", roundID, err)
	}
	return round.AssessmentConfig, nil
}

func (s *AssessmentService) publishFinalized(ctx context.Context, v verdict) {
	if s.events == nil {
		return
	}
	err := eventbus.PublishJSON(ctx, s.events, assessmenttypes.AssessmentFinalizedV1, assessmenttypes.AssessmentFinalizedPayload{
		AssessmentID:  v.assessment.ID,
		ApplicationID: v.assessment.ApplicationID,
		RoundID:       v.assessment.RoundID,
		Mode:          v.results.Mode,
		Passed:        v.results.Passed,
		Score:         v.results.Score,
		OccurredAt:    s.clock.NowUTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish assessment finalized event",
			slog.String("assessment_id", v.assessment.ID.String()),
			slog.Any("error", err),
		)
	}
}

// followThrough applies auto-reject or auto-advance. Failures are logged and
// never undo the verdict.
func (s *AssessmentService) followThrough(ctx context.Context, v verdict, actorID uuid.UUID) {
	if v.cfg == nil {
		return
	}
	a := v.assessment
	logger := s.logger.With(
		slog.String("assessment_id", a.ID.String()),
		slog.String("application_id", a.ApplicationID.String()),
		slog.String("round_id", a.RoundID.String()),
	)

	t := s.getTransitioner()
	if t == nil {
		if (v.cfg.AutoRejectOnFail && !v.results.Passed) || (v.cfg.AutoMoveOnPass && v.results.Passed) {
			logger.WarnContext(ctx, "No transitioner bound; skipping assessment follow-through")
		}
		return
	}

	switch {
	case v.cfg.AutoRejectOnFail && !v.results.Passed:
		if _, err := t.Reject(ctx, a.ApplicationID, actorID); err != nil {
			logger.ErrorContext(ctx, "Auto-reject after failed assessment failed", slog.Any("error", err))
			return
		}
		logger.InfoContext(ctx, "Application auto-rejected after assessment")

	case v.cfg.AutoMoveOnPass && v.results.Passed:
		if v.cfg.NextRoundID == nil {
			logger.WarnContext(ctx, "Auto-move on pass is enabled but no next round is configured")
			return
		}
		_, err := t.Advance(ctx, pipelinetypes.AdvanceRequest{
			ApplicationID:  a.ApplicationID,
			Round:          roundtypes.RefByID(*v.cfg.NextRoundID),
			ActorID:        actorID,
			SkipAutomation: !s.cfg.DispatchOnAutoAdvance,
		})
		if err != nil {
			logger.ErrorContext(ctx, "Auto-advance after passed assessment failed",
				slog.String("next_round_id", v.cfg.NextRoundID.String()),
				slog.Any("error", err),
			)
			return
		}
		logger.InfoContext(ctx, "Application auto-advanced after assessment",
			slog.String("next_round_id", v.cfg.NextRoundID.String()),
			slog.Bool("dispatch", s.cfg.DispatchOnAutoAdvance),
		)
	}
}
