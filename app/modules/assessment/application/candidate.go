package assessmentservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	assessmentdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
)

var (
	// ErrAssessmentExpired is returned when the invitation deadline has passed.
	ErrAssessmentExpired = fmt.Errorf("assessment has expired: %w", apperrors.ErrInvalidState)
	// ErrNotStartable is returned when the assessment is past the invitation stage.
	ErrNotStartable = fmt.Errorf("assessment cannot be started: %w", apperrors.ErrInvalidState)
	// ErrNotInProgress is returned when answers arrive outside IN_PROGRESS.
	ErrNotInProgress = fmt.Errorf("assessment is not in progress: %w", apperrors.ErrInvalidState)
	// ErrUnknownQuestion is returned when a question does not belong to the assessment.
	ErrUnknownQuestion = fmt.Errorf("question does not belong to this assessment: %w", apperrors.ErrInvalidInput)
)

// byToken verifies the signed token and loads its assessment. The stored
// token must match so a reissued invitation invalidates the old link.
func (s *AssessmentService) byToken(ctx context.Context, token string) (assessmenttypes.Assessment, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return assessmenttypes.Assessment{}, err
	}
	a, err := s.repo.GetByToken(ctx, nil, token)
	if err != nil {
		return assessmenttypes.Assessment{}, err
	}
	if a.ID != id {
		return assessmenttypes.Assessment{}, assessmentdb.ErrNotFound
	}
	return a, nil
}

// loadForCandidate resolves the token and expires the assessment if its
// deadline has passed.
func (s *AssessmentService) loadForCandidate(ctx context.Context, token string, now time.Time) (assessmenttypes.Assessment, error) {
	a, err := s.byToken(ctx, token)
	if err != nil {
		return a, err
	}
	if a.Status == assessmenttypes.StatusExpired {
		return a, ErrAssessmentExpired
	}
	if a.Status != assessmenttypes.StatusCompleted && a.IsExpired(now) {
		if err := s.expire(ctx, a, now); err != nil {
			return a, err
		}
		return a, ErrAssessmentExpired
	}
	return a, nil
}

func (s *AssessmentService) GetByToken(ctx context.Context, token string) (assessmenttypes.Assessment, error) {
	return call(s, ctx, "GetByToken", "", func(ctx context.Context) (assessmentResult, error) {
		a, err := s.byToken(ctx, token)
		if err != nil {
			return domainFailure[assessmenttypes.Assessment](err)
		}
		return success(a)
	})
}

// Start moves an invited assessment to IN_PROGRESS. Starting one that is
// already in progress returns it unchanged.
func (s *AssessmentService) Start(ctx context.Context, token string) (assessmenttypes.Assessment, error) {
	return call(s, ctx, "Start", "", func(ctx context.Context) (assessmentResult, error) {
		now := s.clock.NowUTC()
		a, err := s.loadForCandidate(ctx, token, now)
		if err != nil {
			return domainFailure[assessmenttypes.Assessment](err)
		}
		if a.Status == assessmenttypes.StatusInProgress {
			return success(a)
		}
		if !a.Status.CanStart() {
			return failure[assessmenttypes.Assessment](ErrNotStartable)
		}

		err = s.repo.SetStatus(ctx, nil, a.ID,
			[]assessmenttypes.Status{assessmenttypes.StatusInvited, assessmenttypes.StatusPendingInvitation},
			assessmenttypes.StatusInProgress, now)
		if err != nil {
			if errors.Is(err, assessmentdb.ErrStatusConflict) {
				return failure[assessmenttypes.Assessment](ErrNotStartable)
			}
			return assessmentResult{}, err
		}
		a.Status = assessmenttypes.StatusInProgress
		a.StartedAt = &now
		return success(a)
	})
}

type responseResult = results.OperationResult[assessmenttypes.Response, error]

func (s *AssessmentService) SaveResponse(ctx context.Context, token string, questionID uuid.UUID, answer string) (assessmenttypes.Response, error) {
	return call(s, ctx, "SaveResponse", questionID.String(), func(ctx context.Context) (responseResult, error) {
		now := s.clock.NowUTC()
		a, err := s.loadForCandidate(ctx, token, now)
		if err != nil {
			return domainFailure[assessmenttypes.Response](err)
		}
		if a.Status != assessmenttypes.StatusInProgress {
			return failure[assessmenttypes.Response](ErrNotInProgress)
		}
		if !hasQuestion(a, questionID) {
			return failure[assessmenttypes.Response](ErrUnknownQuestion)
		}

		resp, err := s.repo.UpsertResponse(ctx, nil, a.ID, questionID, answer, now)
		if err != nil {
			return responseResult{}, err
		}
		return success(resp)
	})
}

func hasQuestion(a assessmenttypes.Assessment, questionID uuid.UUID) bool {
	for _, q := range a.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

// Submit completes the candidate's attempt. The verdict is written later by Finalize.
func (s *AssessmentService) Submit(ctx context.Context, token string) (assessmenttypes.Assessment, error) {
	return call(s, ctx, "Submit", "", func(ctx context.Context) (assessmentResult, error) {
		now := s.clock.NowUTC()
		a, err := s.loadForCandidate(ctx, token, now)
		if err != nil {
			return domainFailure[assessmenttypes.Assessment](err)
		}
		if a.Status != assessmenttypes.StatusInProgress {
			return failure[assessmenttypes.Assessment](ErrNotInProgress)
		}

		err = s.repo.SetStatus(ctx, nil, a.ID,
			[]assessmenttypes.Status{assessmenttypes.StatusInProgress},
			assessmenttypes.StatusCompleted, now)
		if err != nil {
			if errors.Is(err, assessmentdb.ErrStatusConflict) {
				return failure[assessmenttypes.Assessment](ErrNotInProgress)
			}
			return assessmentResult{}, err
		}
		a.Status = assessmenttypes.StatusCompleted
		a.CompletedAt = &now
		return success(a)
	})
}
