package pipelinetypes

import (
	"context"
	"time"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
)

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusActive   ApplicationStatus = "ACTIVE"
	StatusRejected ApplicationStatus = "REJECTED"
	StatusHired    ApplicationStatus = "HIRED"
)

// StatusFor returns the status an application takes on entering round.
func StatusFor(round roundtypes.JobRound) ApplicationStatus {
	if !round.IsFixed {
		return StatusActive
	}
	switch round.FixedKey {
	case roundtypes.FixedRejected:
		return StatusRejected
	case roundtypes.FixedHired:
		return StatusHired
	default:
		return StatusActive
	}
}

// Application is one candidate's submission to one job.
type Application struct {
	ID             uuid.UUID         `json:"id"`
	JobID          uuid.UUID         `json:"job_id"`
	CandidateID    uuid.UUID         `json:"candidate_id"`
	CandidateName  string            `json:"candidate_name"`
	CandidateEmail string            `json:"candidate_email"`
	Stage          roundtypes.Stage  `json:"stage"`
	Status         ApplicationStatus `json:"status"`
	CurrentRoundID *uuid.UUID        `json:"current_round_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// RoundProgress records that an application is or was in a round.
// There is at most one per (application, round).
type RoundProgress struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	RoundID       uuid.UUID  `json:"round_id"`
	EnteredBy     *uuid.UUID `json:"entered_by,omitempty"`
	InterviewID   *uuid.UUID `json:"interview_id,omitempty"`
	EnteredAt     time.Time  `json:"entered_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// InterviewStatus is the lifecycle state of an interview.
type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "SCHEDULED"
	InterviewRescheduled InterviewStatus = "RESCHEDULED"
	InterviewInProgress  InterviewStatus = "IN_PROGRESS"
	InterviewCancelled   InterviewStatus = "CANCELLED"
	InterviewCompleted   InterviewStatus = "COMPLETED"
	InterviewNoShow      InterviewStatus = "NO_SHOW"
)

// OpenInterviewStatuses block a second interview for the same application and round.
var OpenInterviewStatuses = []InterviewStatus{InterviewScheduled, InterviewRescheduled, InterviewInProgress}

// IsOpen reports whether s is one of OpenInterviewStatuses.
func (s InterviewStatus) IsOpen() bool {
	for _, open := range OpenInterviewStatuses {
		if s == open {
			return true
		}
	}
	return false
}

// Interview is one scheduled meeting for an application in an INTERVIEW round.
type Interview struct {
	ID              uuid.UUID                  `json:"id"`
	ApplicationID   uuid.UUID                  `json:"application_id"`
	RoundID         uuid.UUID                  `json:"round_id"`
	ScheduledAt     time.Time                  `json:"scheduled_at"`
	DurationMinutes int                        `json:"duration_minutes"`
	Format          roundtypes.InterviewFormat `json:"format"`
	Location        string                     `json:"location,omitempty"`
	MeetingLink     *string                    `json:"meeting_link,omitempty"`
	Status          InterviewStatus            `json:"status"`
	IsAutoScheduled bool                       `json:"is_auto_scheduled"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// Dispatcher names a best-effort automation step run after a transition.
type Dispatcher string

const (
	DispatcherAssessment Dispatcher = "assessment_auto_assign"
	DispatcherInterview  Dispatcher = "interview_auto_schedule"
	DispatcherOffer      Dispatcher = "offer_auto_send"
	DispatcherStageEmail Dispatcher = "stage_notification"
)

// Outcome is the result of one dispatcher run.
type Outcome string

const (
	OutcomeSucceeded Outcome = "SUCCEEDED"
	OutcomeSkipped   Outcome = "SKIPPED"
	OutcomeFailed    Outcome = "FAILED"
)

// AutomationRun is the audit record of one dispatcher run.
type AutomationRun struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	RoundID       uuid.UUID  `json:"round_id"`
	Dispatcher    Dispatcher `json:"dispatcher"`
	Outcome       Outcome    `json:"outcome"`
	Detail        string     `json:"detail,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AdvanceRequest moves an application into a round.
type AdvanceRequest struct {
	ApplicationID uuid.UUID
	Round         roundtypes.RoundRef
	ActorID       uuid.UUID
	// SkipAutomation updates stage and progress only.
	SkipAutomation bool
}

// AutomationTask identifies the transition whose side effects should run.
type AutomationTask struct {
	ApplicationID uuid.UUID `json:"application_id"`
	RoundID       uuid.UUID `json:"round_id"`
	ActorID       uuid.UUID `json:"actor_id"`
	// RequestedAt anchors deadlines and slots to the transition time.
	RequestedAt time.Time `json:"requested_at"`
}

// NewApplicationInput registers a candidate for a job.
type NewApplicationInput struct {
	JobID          uuid.UUID `json:"job_id"`
	CandidateID    uuid.UUID `json:"candidate_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
}

// AutomationExecutor runs the side effects of one transition.
type AutomationExecutor interface {
	Dispatch(ctx context.Context, task AutomationTask) error
}

// ApplicationAdvancedV1 is published after a transition commits.
const ApplicationAdvancedV1 = "pipeline.application.advanced.v1"

// ApplicationAdvancedPayload is the body of ApplicationAdvancedV1.
type ApplicationAdvancedPayload struct {
	ApplicationID uuid.UUID         `json:"application_id"`
	JobID         uuid.UUID         `json:"job_id"`
	RoundID       uuid.UUID         `json:"round_id"`
	Stage         roundtypes.Stage  `json:"stage"`
	Status        ApplicationStatus `json:"status"`
	ActorID       uuid.UUID         `json:"actor_id"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
