package assessmentservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	assessmentdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrInvalidInvite is returned when an invitation is missing its identifiers.
var ErrInvalidInvite = fmt.Errorf("invitation needs application, round, candidate and job: %w", apperrors.ErrInvalidInput)

type inviteResult = results.OperationResult[assessmenttypes.InviteResult, error]

func (s *AssessmentService) CreateInvitation(ctx context.Context, invite assessmenttypes.Invite) (assessmenttypes.InviteResult, error) {
	return call(s, ctx, "CreateInvitation", invite.ApplicationID.String(), func(ctx context.Context) (inviteResult, error) {
		if invite.ApplicationID == uuid.Nil || invite.RoundID == uuid.Nil || invite.CandidateID == uuid.Nil || invite.JobID == uuid.Nil {
			return failure[assessmenttypes.InviteResult](ErrInvalidInvite)
		}
		now := s.clock.NowUTC()

		existing, err := s.repo.FindOpen(ctx, nil, invite.ApplicationID, invite.RoundID)
		if err != nil {
			return inviteResult{}, err
		}
		if existing != nil {
			if existing.Status == assessmenttypes.StatusCompleted || !existing.IsExpired(now) {
				return success(existingInvite(*existing))
			}
			if err := s.expire(ctx, *existing, now); err != nil {
				return inviteResult{}, err
			}
		}

		created, err := s.createAssessment(ctx, invite, now)
		if errors.Is(err, assessmentdb.ErrOpenAssessmentExists) {
			winner, findErr := s.repo.FindOpen(ctx, nil, invite.ApplicationID, invite.RoundID)
			if findErr != nil {
				return inviteResult{}, findErr
			}
			if winner == nil {
				return inviteResult{}, fmt.Errorf("open assessment vanished after conflict")
			}
			return success(existingInvite(*winner))
		}
		if err != nil {
			return inviteResult{}, err
		}

		s.logger.InfoContext(ctx, "Assessment created",
			slog.String("assessment_id", created.ID.String()),
			slog.String("application_id", invite.ApplicationID.String()),
			slog.String("round_id", invite.RoundID.String()),
			slog.Int("questions", len(created.Questions)),
		)
		return success(assessmenttypes.InviteResult{
			AssessmentID: created.ID,
			Token:        created.Token,
			ExpiresAt:    created.ExpiresAt,
			Created:      true,
		})
	})
}

func existingInvite(a assessmenttypes.Assessment) assessmenttypes.InviteResult {
	return assessmenttypes.InviteResult{AssessmentID: a.ID, Token: a.Token, ExpiresAt: a.ExpiresAt}
}

func (s *AssessmentService) createAssessment(ctx context.Context, invite assessmenttypes.Invite, now time.Time) (assessmenttypes.Assessment, error) {
	id := uuid.New()
	token, err := s.tokens.Issue(id, now)
	if err != nil {
		return assessmenttypes.Assessment{}, err
	}

	threshold := invite.PassThreshold
	if threshold <= 0 {
		threshold = s.cfg.DefaultPassThreshold
	}
	model := &assessmentdb.Assessment{
		ID:            id,
		ApplicationID: invite.ApplicationID,
		RoundID:       invite.RoundID,
		CandidateID:   invite.CandidateID,
		JobID:         invite.JobID,
		Status:        assessmenttypes.StatusInvited,
		Token:         token,
		ExpiresAt:     invite.ExpiresAt,
		PassThreshold: threshold,
		CreatedAt:     now,
	}
	questions := make([]*assessmentdb.Question, 0, len(invite.Questions))
	for _, q := range invite.Questions {
		questions = append(questions, &assessmentdb.Question{
			Text:    q.Text,
			Type:    q.Type,
			Options: append([]string(nil), q.Options...),
			Points:  q.Points,
		})
	}

	var created assessmenttypes.Assessment
	err = s.inTx(ctx, func(ctx context.Context, db bun.IDB) error {
		var err error
		created, err = s.repo.Create(ctx, db, model, questions)
		return err
	})
	return created, err
}

// expire marks a lapsed assessment EXPIRED. Losing the race to another
// status change is fine.
func (s *AssessmentService) expire(ctx context.Context, a assessmenttypes.Assessment, now time.Time) error {
	err := s.repo.SetStatus(ctx, nil, a.ID,
		[]assessmenttypes.Status{assessmenttypes.StatusPendingInvitation, assessmenttypes.StatusInvited, assessmenttypes.StatusInProgress},
		assessmenttypes.StatusExpired, now)
	if err != nil && !errors.Is(err, assessmentdb.ErrStatusConflict) {
		return err
	}
	s.logger.InfoContext(ctx, "Assessment expired",
		slog.String("assessment_id", a.ID.String()),
		slog.String("application_id", a.ApplicationID.String()),
	)
	return nil
}

type assessmentResult = results.OperationResult[assessmenttypes.Assessment, error]

func (s *AssessmentService) Get(ctx context.Context, assessmentID uuid.UUID) (assessmenttypes.Assessment, error) {
	return call(s, ctx, "Get", assessmentID.String(), func(ctx context.Context) (assessmentResult, error) {
		a, err := s.repo.Get(ctx, nil, assessmentID)
		if err != nil {
			if errors.Is(err, assessmentdb.ErrNotFound) {
				return failure[assessmenttypes.Assessment](err)
			}
			return assessmentResult{}, err
		}
		return success(a)
	})
}
