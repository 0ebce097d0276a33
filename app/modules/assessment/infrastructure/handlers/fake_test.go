package assessmenthandlers

import (
	"context"

	assessmentservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/application"
	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/google/uuid"
)

// FakeService is a programmable assessmentservice.Service.
type FakeService struct {
	GetByTokenFunc    func(ctx context.Context, token string) (assessmenttypes.Assessment, error)
	StartFunc         func(ctx context.Context, token string) (assessmenttypes.Assessment, error)
	SaveResponseFunc  func(ctx context.Context, token string, questionID uuid.UUID, answer string) (assessmenttypes.Response, error)
	GradeResponseFunc func(ctx context.Context, assessmentID, responseID, reviewerID uuid.UUID, score *float64, feedback string) (assessmenttypes.Grade, error)
	CastVoteFunc      func(ctx context.Context, assessmentID, reviewerID uuid.UUID, decision assessmenttypes.VoteDecision, comment string) (assessmenttypes.Vote, error)
	FinalizeFunc      func(ctx context.Context, assessmentID, actorID uuid.UUID) (assessmenttypes.FinalizeResult, error)
}

func (f *FakeService) CreateInvitation(ctx context.Context, invite assessmenttypes.Invite) (assessmenttypes.InviteResult, error) {
	return assessmenttypes.InviteResult{AssessmentID: uuid.New(), Created: true}, nil
}

func (f *FakeService) Get(ctx context.Context, assessmentID uuid.UUID) (assessmenttypes.Assessment, error) {
	return assessmenttypes.Assessment{ID: assessmentID}, nil
}

func (f *FakeService) GetByToken(ctx context.Context, token string) (assessmenttypes.Assessment, error) {
	if f.GetByTokenFunc != nil {
		return f.GetByTokenFunc(ctx, token)
	}
	return assessmenttypes.Assessment{}, nil
}

func (f *FakeService) Start(ctx context.Context, token string) (assessmenttypes.Assessment, error) {
	if f.StartFunc != nil {
		return f.StartFunc(ctx, token)
	}
	return assessmenttypes.Assessment{Status: assessmenttypes.StatusInProgress}, nil
}

func (f *FakeService) SaveResponse(ctx context.Context, token string, questionID uuid.UUID, answer string) (assessmenttypes.Response, error) {
	if f.SaveResponseFunc != nil {
		return f.SaveResponseFunc(ctx, token, questionID, answer)
	}
	return assessmenttypes.Response{QuestionID: questionID, Answer: answer}, nil
}

func (f *FakeService) Submit(ctx context.Context, token string) (assessmenttypes.Assessment, error) {
	return assessmenttypes.Assessment{Status: assessmenttypes.StatusCompleted}, nil
}

func (f *FakeService) GradeResponse(ctx context.Context, assessmentID, responseID, reviewerID uuid.UUID, score *float64, feedback string) (assessmenttypes.Grade, error) {
	if f.GradeResponseFunc != nil {
		return f.GradeResponseFunc(ctx, assessmentID, responseID, reviewerID, score, feedback)
	}
	return assessmenttypes.Grade{}, nil
}

func (f *FakeService) CastVote(ctx context.Context, assessmentID, reviewerID uuid.UUID, decision assessmenttypes.VoteDecision, comment string) (assessmenttypes.Vote, error) {
	if f.CastVoteFunc != nil {
		return f.CastVoteFunc(ctx, assessmentID, reviewerID, decision, comment)
	}
	return assessmenttypes.Vote{ReviewerID: reviewerID, Decision: decision}, nil
}

func (f *FakeService) Finalize(ctx context.Context, assessmentID, actorID uuid.UUID) (assessmenttypes.FinalizeResult, error) {
	if f.FinalizeFunc != nil {
		return f.FinalizeFunc(ctx, assessmentID, actorID)
	}
	return assessmenttypes.FinalizeResult{Success: true}, nil
}

var _ assessmentservice.Service = (*FakeService)(nil)
