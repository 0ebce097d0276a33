package assessmentservice

import (
	"context"
	"fmt"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	assessmentdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrResponseNotFound is returned when a response does not belong to the assessment.
	ErrResponseNotFound = fmt.Errorf("response %w", apperrors.ErrNotFound)
	// ErrInvalidScore is returned for negative scores.
	ErrInvalidScore = fmt.Errorf("score must not be negative: %w", apperrors.ErrInvalidInput)
	// ErrInvalidDecision is returned for decisions other than APPROVE and REJECT.
	ErrInvalidDecision = fmt.Errorf("decision must be APPROVE or REJECT: %w", apperrors.ErrInvalidInput)
	// ErrMissingReviewer is returned when no reviewer is named.
	ErrMissingReviewer = fmt.Errorf("reviewer is required: %w", apperrors.ErrInvalidInput)
)

// loadOpenForReview returns the assessment if reviewers may still change it.
// Expired invitations, including ones never started before their deadline,
// are closed to review.
func (s *AssessmentService) loadOpenForReview(ctx context.Context, db bun.IDB, assessmentID uuid.UUID) (assessmenttypes.Assessment, error) {
	a, err := s.repo.Get(ctx, db, assessmentID)
	if err != nil {
		return a, err
	}
	if a.Results != nil {
		return a, assessmentdb.ErrAlreadyFinalized
	}
	switch a.Status {
	case assessmenttypes.StatusExpired:
		return a, ErrAssessmentExpired
	case assessmenttypes.StatusInvited, assessmenttypes.StatusPendingInvitation:
		if a.IsExpired(s.clock.NowUTC()) {
			return a, ErrAssessmentExpired
		}
	}
	return a, nil
}

type gradeResult = results.OperationResult[assessmenttypes.Grade, error]

func (s *AssessmentService) GradeResponse(ctx context.Context, assessmentID, responseID, reviewerID uuid.UUID, score *float64, feedback string) (assessmenttypes.Grade, error) {
	return run(s, ctx, "GradeResponse", responseID.String(), func(ctx context.Context, db bun.IDB) (gradeResult, error) {
		if reviewerID == uuid.Nil {
			return failure[assessmenttypes.Grade](ErrMissingReviewer)
		}
		if score != nil && *score < 0 {
			return failure[assessmenttypes.Grade](ErrInvalidScore)
		}
		a, err := s.loadOpenForReview(ctx, db, assessmentID)
		if err != nil {
			return domainFailure[assessmenttypes.Grade](err)
		}
		if !hasResponse(a, responseID) {
			return failure[assessmenttypes.Grade](ErrResponseNotFound)
		}

		grade, err := s.repo.UpsertGrade(ctx, db, assessmenttypes.Grade{
			ResponseID: responseID,
			ReviewerID: reviewerID,
			Score:      score,
			Feedback:   feedback,
		})
		if err != nil {
			return gradeResult{}, err
		}
		return success(grade)
	})
}

func hasResponse(a assessmenttypes.Assessment, responseID uuid.UUID) bool {
	for _, r := range a.Responses {
		if r.ID == responseID {
			return true
		}
	}
	return false
}

type voteResult = results.OperationResult[assessmenttypes.Vote, error]

func (s *AssessmentService) CastVote(ctx context.Context, assessmentID, reviewerID uuid.UUID, decision assessmenttypes.VoteDecision, comment string) (assessmenttypes.Vote, error) {
	return run(s, ctx, "CastVote", assessmentID.String(), func(ctx context.Context, db bun.IDB) (voteResult, error) {
		if reviewerID == uuid.Nil {
			return failure[assessmenttypes.Vote](ErrMissingReviewer)
		}
		if !decision.IsValid() {
			return failure[assessmenttypes.Vote](ErrInvalidDecision)
		}
		if _, err := s.loadOpenForReview(ctx, db, assessmentID); err != nil {
			return domainFailure[assessmenttypes.Vote](err)
		}

		vote, err := s.repo.UpsertVote(ctx, db, assessmentID, assessmenttypes.Vote{
			ReviewerID: reviewerID,
			Decision:   decision,
			Comment:    comment,
		})
		if err != nil {
			return voteResult{}, err
		}
		return success(vote)
	})
}
