package pipelineservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
)

// ErrNotAssessmentRound is returned when assigning an assessment for a round of another kind.
var ErrNotAssessmentRound = fmt.Errorf("round is not an assessment round: %w", apperrors.ErrInvalidState)

func (s *PipelineService) dispatchAssessment(ctx context.Context, job automationJob) (pipelinetypes.Outcome, string, error) {
	cfg := job.round.AssessmentConfig
	if cfg == nil || !cfg.Enabled {
		return skipped("assessment automation disabled")
	}
	res, err := s.inviteToAssessment(ctx, job.app, job.round, job.now)
	if err != nil {
		return pipelinetypes.OutcomeFailed, "", err
	}
	if !res.Created {
		return skipped("assessment " + res.AssessmentID.String() + " already exists")
	}
	return succeeded("assessment " + res.AssessmentID.String())
}

// AssignAssessment invites the candidate to a round's assessment by hand.
// It shares the auto-assigner's path, so the pair still gets one assessment.
func (s *PipelineService) AssignAssessment(ctx context.Context, applicationID, roundID, actorID uuid.UUID) (assessmenttypes.InviteResult, error) {
	return call(s, ctx, "AssignAssessment", applicationID.String(), func(ctx context.Context) (results.OperationResult[assessmenttypes.InviteResult, error], error) {
		fail := results.FailureResult[assessmenttypes.InviteResult, error]

		app, round, err := s.loadPair(ctx, applicationID, roundID)
		if err != nil {
			if apperrors.IsDomain(err) {
				return fail(err), nil
			}
			return results.OperationResult[assessmenttypes.InviteResult, error]{}, err
		}

		res, err := s.inviteToAssessment(ctx, app, round, s.clock.NowUTC())
		if err != nil {
			if apperrors.IsDomain(err) {
				return fail(err), nil
			}
			return results.OperationResult[assessmenttypes.InviteResult, error]{}, err
		}
		s.logger.InfoContext(ctx, "Assessment assigned",
			slog.String("application_id", app.ID.String()),
			slog.String("assessment_id", res.AssessmentID.String()),
			slog.String("actor_id", actorID.String()),
			slog.Bool("created", res.Created),
		)
		return results.SuccessResult[assessmenttypes.InviteResult, error](res), nil
	})
}

// loadPair loads an application and one of its job's rounds.
func (s *PipelineService) loadPair(ctx context.Context, applicationID, roundID uuid.UUID) (pipelinetypes.Application, roundtypes.JobRound, error) {
	app, err := s.repo.GetApplication(ctx, nil, applicationID)
	if err != nil {
		if errors.Is(err, pipelinedb.ErrApplicationNotFound) {
			return pipelinetypes.Application{}, roundtypes.JobRound{}, err
		}
		return pipelinetypes.Application{}, roundtypes.JobRound{}, fmt.Errorf("failed to load application: %w", err)
	}
	round, err := s.rounds.ResolveRound(ctx, roundtypes.RefByID(roundID))
	if err != nil {
		return pipelinetypes.Application{}, roundtypes.JobRound{}, err
	}
	if round.JobID != app.JobID {
		return pipelinetypes.Application{}, roundtypes.JobRound{}, ErrCrossJobRound
	}
	return app, round, nil
}

// inviteToAssessment creates the pair's assessment if none is open and
// emails the candidate when a new one was created.
func (s *PipelineService) inviteToAssessment(ctx context.Context, app pipelinetypes.Application, round roundtypes.JobRound, now time.Time) (assessmenttypes.InviteResult, error) {
	if round.IsFixed || round.Kind != roundtypes.KindAssessment {
		return assessmenttypes.InviteResult{}, ErrNotAssessmentRound
	}
	cfg := round.AssessmentConfig

	invite := assessmenttypes.Invite{
		ApplicationID: app.ID,
		RoundID:       round.ID,
		CandidateID:   app.CandidateID,
		JobID:         app.JobID,
		PassThreshold: cfg.EffectivePassThreshold(),
	}
	if cfg != nil {
		if cfg.DeadlineDays != nil && *cfg.DeadlineDays > 0 {
			expires := now.AddDate(0, 0, *cfg.DeadlineDays)
			invite.ExpiresAt = &expires
		}
		invite.Questions = snapshotQuestions(cfg.Questions)
	}

	res, err := s.assessments.CreateInvitation(ctx, invite)
	if err != nil {
		return assessmenttypes.InviteResult{}, fmt.Errorf("failed to create assessment: %w", err)
	}
	if res.Created {
		s.sendAssessmentInvitation(ctx, app, round, res)
	}
	return res, nil
}

// snapshotQuestions copies the configured questions so later edits to the
// round never reach an assessment already handed out.
func snapshotQuestions(in []roundtypes.QuestionTemplate) []roundtypes.QuestionTemplate {
	if len(in) == 0 {
		return nil
	}
	out := make([]roundtypes.QuestionTemplate, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

func (s *PipelineService) sendAssessmentInvitation(ctx context.Context, app pipelinetypes.Application, round roundtypes.JobRound, res assessmenttypes.InviteResult) {
	templateID := notificationtypes.DefaultAssessmentInvitationTemplate
	if cfg := round.AssessmentConfig; cfg != nil && cfg.EmailTemplateID != "" {
		templateID = cfg.EmailTemplateID
	}

	vars := map[string]string{
		"candidate_name":  app.CandidateName,
		"round_name":      round.Name,
		"assessment_link": s.cfg.CandidatePortalURL + "/assessments/" + res.Token,
	}
	if res.ExpiresAt != nil {
		vars["expires_at"] = res.ExpiresAt.Format(time.RFC3339)
	}

	err := s.notifications.SendTemplated(ctx, notificationtypes.TemplatedEmail{
		To:         app.CandidateEmail,
		TemplateID: templateID,
		ContextIDs: map[string]string{
			"application_id": app.ID.String(),
			"round_id":       round.ID.String(),
			"assessment_id":  res.AssessmentID.String(),
		},
		Variables: vars,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to send assessment invitation",
			slog.String("application_id", app.ID.String()),
			slog.String("round_id", round.ID.String()),
			slog.String("assessment_id", res.AssessmentID.String()),
			slog.Any("error", err),
		)
	}
}
