package pipelineservice

import (
	"context"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/modules/calendar"
	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// RoundResolver is the slice of the round service the pipeline reads.
type RoundResolver interface {
	ResolveRound(ctx context.Context, ref roundtypes.RoundRef) (roundtypes.JobRound, error)
	ListRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (roundtypes.Job, error)
}

// AssessmentInviter creates at most one open assessment per (application, round).
type AssessmentInviter interface {
	CreateInvitation(ctx context.Context, invite assessmenttypes.Invite) (assessmenttypes.InviteResult, error)
}

// NotificationSender delivers candidate emails.
type NotificationSender interface {
	SendTemplated(ctx context.Context, email notificationtypes.TemplatedEmail) error
	SendInterviewInvitation(ctx context.Context, inv notificationtypes.InterviewInvitation) error
}

// CalendarClient books video meetings. calendar.ErrNotConfigured means no
// calendar is connected.
type CalendarClient interface {
	CreateVideoInterviewEvent(ctx context.Context, ev calendar.Event) (string, error)
}

// OfferIssuer creates and sends offers.
type OfferIssuer interface {
	CreateOffer(ctx context.Context, params offertypes.CreateOfferParams, actorID uuid.UUID) (offertypes.Offer, error)
	SendOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error)
}

// AutomationRunner decides where and when a transition's side effects run.
type AutomationRunner interface {
	Bind(executor pipelinetypes.AutomationExecutor)
	Submit(ctx context.Context, task pipelinetypes.AutomationTask) error
}

// Collaborators are the pipeline's outbound dependencies. Calendar and Events
// may be nil.
type Collaborators struct {
	Rounds        RoundResolver
	Assessments   AssessmentInviter
	Notifications NotificationSender
	Calendar      CalendarClient
	Offers        OfferIssuer
	Runner        AutomationRunner
	Events        message.Publisher
}
