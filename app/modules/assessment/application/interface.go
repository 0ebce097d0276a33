package assessmentservice

import (
	"context"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/google/uuid"
)

// Service runs an assessment from invitation to verdict.
type Service interface {
	// CreateInvitation returns the pair's open assessment or creates one.
	CreateInvitation(ctx context.Context, invite assessmenttypes.Invite) (assessmenttypes.InviteResult, error)
	Get(ctx context.Context, assessmentID uuid.UUID) (assessmenttypes.Assessment, error)

	GetByToken(ctx context.Context, token string) (assessmenttypes.Assessment, error)
	Start(ctx context.Context, token string) (assessmenttypes.Assessment, error)
	SaveResponse(ctx context.Context, token string, questionID uuid.UUID, answer string) (assessmenttypes.Response, error)
	Submit(ctx context.Context, token string) (assessmenttypes.Assessment, error)

	GradeResponse(ctx context.Context, assessmentID, responseID, reviewerID uuid.UUID, score *float64, feedback string) (assessmenttypes.Grade, error)
	CastVote(ctx context.Context, assessmentID, reviewerID uuid.UUID, decision assessmenttypes.VoteDecision, comment string) (assessmenttypes.Vote, error)

	// Finalize writes the verdict once and then applies the round's
	// auto-reject or auto-advance rule. The follow-through never undoes
	// the verdict.
	Finalize(ctx context.Context, assessmentID, actorID uuid.UUID) (assessmenttypes.FinalizeResult, error)
}
