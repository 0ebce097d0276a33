package assessmenttypes

import (
	"time"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
)

// Status is the lifecycle state of an assessment.
type Status string

const (
	StatusPendingInvitation Status = "PENDING_INVITATION"
	StatusInvited           Status = "INVITED"
	StatusInProgress        Status = "IN_PROGRESS"
	StatusCompleted         Status = "COMPLETED"
	StatusExpired           Status = "EXPIRED"
)

// CanStart reports whether a candidate may begin an assessment in status s.
func (s Status) CanStart() bool {
	return s == StatusInvited || s == StatusPendingInvitation
}

// Assessment is one invitation for one application to complete one ASSESSMENT round.
type Assessment struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	RoundID       uuid.UUID  `json:"round_id"`
	CandidateID   uuid.UUID  `json:"candidate_id"`
	JobID         uuid.UUID  `json:"job_id"`
	Status        Status     `json:"status"`
	Token         string     `json:"-"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	PassThreshold float64    `json:"pass_threshold"`
	Results       *Results   `json:"results,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	Questions []Question `json:"questions,omitempty"`
	Responses []Response `json:"responses,omitempty"`
	Votes     []Vote     `json:"votes,omitempty"`
}

// IsExpired reports whether the invitation deadline has passed at now.
func (a Assessment) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}

// Question is a snapshot of a configured question owned by one assessment.
type Question struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
	Text     string    `json:"text"`
	Type     string    `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Points   float64   `json:"points"`
}

// Response is a candidate's answer to one question.
type Response struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Answer     string    `json:"answer"`
	Grades     []Grade   `json:"grades,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Grade is the reviewer's score for one response, at most one per response.
// A nil score is ungraded.
type Grade struct {
	ID         uuid.UUID `json:"id"`
	ResponseID uuid.UUID `json:"response_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Score      *float64  `json:"score,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
}

// VoteDecision is a reviewer's verdict in VOTING mode.
type VoteDecision string

const (
	VoteApprove VoteDecision = "APPROVE"
	VoteReject  VoteDecision = "REJECT"
)

// IsValid reports whether d is a known decision.
func (d VoteDecision) IsValid() bool {
	return d == VoteApprove || d == VoteReject
}

// Vote is one reviewer's decision on an assessment.
type Vote struct {
	ID         uuid.UUID    `json:"id"`
	ReviewerID uuid.UUID    `json:"reviewer_id"`
	Decision   VoteDecision `json:"decision"`
	Comment    string       `json:"comment,omitempty"`
}

// Results is the verdict written once at finalization.
type Results struct {
	Mode      roundtypes.EvaluationMode `json:"mode"`
	Passed    bool                      `json:"passed"`
	Score     *float64                  `json:"score,omitempty"`
	VoteCount *int                      `json:"vote_count,omitempty"`
	Approves  *int                      `json:"approves,omitempty"`
	Rejects   *int                      `json:"rejects,omitempty"`
}

// Invite asks for an assessment to be created for an application in a round.
type Invite struct {
	ApplicationID uuid.UUID
	RoundID       uuid.UUID
	CandidateID   uuid.UUID
	JobID         uuid.UUID
	ExpiresAt     *time.Time
	PassThreshold float64
	Questions     []roundtypes.QuestionTemplate
}

// InviteResult reports the assessment backing an invitation. Created is false
// when an open assessment already existed for the pair.
type InviteResult struct {
	AssessmentID uuid.UUID
	Token        string
	ExpiresAt    *time.Time
	Created      bool
}

// FinalizeResult is returned by Finalize.
type FinalizeResult struct {
	Success bool `json:"success"`
	Passed  bool `json:"passed"`
}

// AssessmentFinalizedV1 is published after a verdict is written.
const AssessmentFinalizedV1 = "assessment.finalized.v1"

// AssessmentFinalizedPayload describes a written verdict.
type AssessmentFinalizedPayload struct {
	AssessmentID  uuid.UUID                 `json:"assessment_id"`
	ApplicationID uuid.UUID                 `json:"application_id"`
	RoundID       uuid.UUID                 `json:"round_id"`
	Mode          roundtypes.EvaluationMode `json:"mode"`
	Passed        bool                      `json:"passed"`
	Score         *float64                  `json:"score,omitempty"`
	OccurredAt    time.Time                 `json:"occurred_at"`
}
