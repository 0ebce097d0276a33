package notificationtypes

import (
	"time"

	"github.com/google/uuid"
)

// Topics carrying email requests.
const (
	TemplatedEmailRequestedV1      = "notification.email.templated.requested.v1"
	InterviewInvitationRequestedV1 = "notification.email.interview.requested.v1"
	OfferEmailRequestedV1          = "notification.email.offer.requested.v1"
)

// Default templates used when a round configures none.
const (
	DefaultAssessmentInvitationTemplate = "assessment-invitation"
	DefaultInterviewInvitationTemplate  = "interview-invitation"
	DefaultOfferTemplate                = "offer-letter"
)

// TemplatedEmail asks for a rendered template to be sent to one recipient.
type TemplatedEmail struct {
	To         string            `json:"to"`
	TemplateID string            `json:"template_id"`
	ContextIDs map[string]string `json:"context_ids,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
}

// InterviewInvitation tells a candidate when and where to meet.
type InterviewInvitation struct {
	To              string    `json:"to"`
	CandidateName   string    `json:"candidate_name"`
	InterviewID     uuid.UUID `json:"interview_id"`
	ApplicationID   uuid.UUID `json:"application_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Format          string    `json:"format"`
	Location        string    `json:"location,omitempty"`
	MeetingLink     string    `json:"meeting_link,omitempty"`
	TemplateID      string    `json:"template_id"`
}

// OfferEmail delivers a sent offer to the candidate.
type OfferEmail struct {
	To            string    `json:"to"`
	CandidateName string    `json:"candidate_name"`
	OfferID       uuid.UUID `json:"offer_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	Salary        float64   `json:"salary"`
	Currency      string    `json:"currency"`
	StartDate     time.Time `json:"start_date"`
	ExpiresAt     time.Time `json:"expires_at"`
	TemplateID    string    `json:"template_id"`
}
