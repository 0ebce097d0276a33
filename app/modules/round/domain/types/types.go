package roundtypes

import (
	"time"

	"github.com/google/uuid"
)

// RoundKind is the closed set of custom round kinds.
type RoundKind string

const (
	KindAssessment RoundKind = "ASSESSMENT"
	KindInterview  RoundKind = "INTERVIEW"
)

// IsValid reports whether k is a known round kind.
func (k RoundKind) IsValid() bool {
	switch k {
	case KindAssessment, KindInterview:
		return true
	default:
		return false
	}
}

// FixedKey identifies one of the four system-defined anchor rounds.
// The zero value means the round is custom.
type FixedKey string

const (
	FixedNone     FixedKey = ""
	FixedNew      FixedKey = "NEW"
	FixedOffer    FixedKey = "OFFER"
	FixedHired    FixedKey = "HIRED"
	FixedRejected FixedKey = "REJECTED"
)

// FixedKeys lists every anchor in ascending order.
var FixedKeys = []FixedKey{FixedNew, FixedOffer, FixedHired, FixedRejected}

// IsValid reports whether k names an anchor round.
func (k FixedKey) IsValid() bool {
	switch k {
	case FixedNew, FixedOffer, FixedHired, FixedRejected:
		return true
	default:
		return false
	}
}

// Reserved orders of the anchor rounds.
const (
	OrderNew      = 1
	OrderOffer    = 999
	OrderHired    = 1000
	OrderRejected = 1001

	// FirstCustomOrder is the order of the first custom round after the NEW anchor.
	FirstCustomOrder = 2
	// DefaultMinFixedOrder is the terminal anchor floor used when no terminal anchor is loaded.
	DefaultMinFixedOrder = OrderOffer
)

// FixedOrder returns the reserved order for an anchor key.
func FixedOrder(k FixedKey) int {
	switch k {
	case FixedNew:
		return OrderNew
	case FixedOffer:
		return OrderOffer
	case FixedHired:
		return OrderHired
	case FixedRejected:
		return OrderRejected
	default:
		return 0
	}
}

// FixedName is the display name given to a freshly created anchor round.
func FixedName(k FixedKey) string {
	switch k {
	case FixedNew:
		return "New"
	case FixedOffer:
		return "Offer"
	case FixedHired:
		return "Hired"
	case FixedRejected:
		return "Rejected"
	default:
		return ""
	}
}

// JobRound is one ordered stage belonging to exactly one job.
type JobRound struct {
	ID              uuid.UUID  `json:"id"`
	JobID           uuid.UUID  `json:"job_id"`
	Name            string     `json:"name"`
	Kind            RoundKind  `json:"kind,omitempty"`
	Order           int        `json:"order"`
	IsFixed         bool       `json:"is_fixed"`
	FixedKey        FixedKey   `json:"fixed_key,omitempty"`
	AssignedRoleID  *uuid.UUID `json:"assigned_role_id,omitempty"`
	SyncPermissions bool       `json:"sync_permissions"`

	EmailConfig      EmailConfig       `json:"email_config"`
	OfferConfig      OfferConfig       `json:"offer_config"`
	AssessmentConfig *AssessmentConfig `json:"assessment_config,omitempty"`
	InterviewConfig  *InterviewConfig  `json:"interview_config,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailConfig controls the stage notification sent when an application enters the round.
type EmailConfig struct {
	Enabled    bool   `json:"enabled"`
	TemplateID string `json:"template_id,omitempty"`
}

// OfferConfig holds the defaults used when the OFFER round auto-sends an offer.
type OfferConfig struct {
	AutoSend            bool    `json:"auto_send"`
	StartDateOffsetDays int     `json:"start_date_offset_days,omitempty"`
	ExpiryOffsetDays    int     `json:"expiry_offset_days,omitempty"`
	Salary              float64 `json:"salary,omitempty"`
	Currency            string  `json:"currency,omitempty"`
	SalaryPeriod        string  `json:"salary_period,omitempty"`
	Location            string  `json:"location,omitempty"`
	WorkArrangement     string  `json:"work_arrangement,omitempty"`
	// DefaultBenefits is a comma separated list, e.g. "Health, Dental, 401k".
	DefaultBenefits string `json:"default_benefits,omitempty"`
	VacationDays    int    `json:"vacation_days,omitempty"`
	TemplateID      string `json:"template_id,omitempty"`
}

// EvaluationMode selects how an assessment verdict is produced.
type EvaluationMode string

const (
	EvaluationGrading EvaluationMode = "GRADING"
	EvaluationVoting  EvaluationMode = "VOTING"
)

// VotingRule is the consensus policy applied to reviewer votes.
type VotingRule string

const (
	VotingUnanimous    VotingRule = "UNANIMOUS"
	VotingMajority     VotingRule = "MAJORITY"
	VotingMinApprovals VotingRule = "MIN_APPROVALS"
)

// DefaultPassThreshold applies when a round has no assessment configuration.
const DefaultPassThreshold = 70.0

// QuestionTemplate is a configured question copied onto each new assessment.
type QuestionTemplate struct {
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Points  float64  `json:"points"`
}

// AssessmentConfig configures auto-assignment and finalization for an ASSESSMENT round.
type AssessmentConfig struct {
	Enabled           bool               `json:"enabled"`
	DeadlineDays      *int               `json:"deadline_days,omitempty"`
	PassThreshold     float64            `json:"pass_threshold"`
	EvaluationMode    EvaluationMode     `json:"evaluation_mode"`
	VotingRule        VotingRule         `json:"voting_rule,omitempty"`
	MinApprovalsCount int                `json:"min_approvals_count,omitempty"`
	AutoRejectOnFail  bool               `json:"auto_reject_on_fail"`
	AutoMoveOnPass    bool               `json:"auto_move_on_pass"`
	NextRoundID       *uuid.UUID         `json:"next_round_id,omitempty"`
	EmailTemplateID   string             `json:"email_template_id,omitempty"`
	Questions         []QuestionTemplate `json:"questions,omitempty"`
}

// EffectivePassThreshold falls back to the default when unset.
func (c *AssessmentConfig) EffectivePassThreshold() float64 {
	if c == nil || c.PassThreshold <= 0 {
		return DefaultPassThreshold
	}
	return c.PassThreshold
}

// InterviewFormat describes how an interview is held.
type InterviewFormat string

const (
	FormatVideo  InterviewFormat = "VIDEO"
	FormatPhone  InterviewFormat = "PHONE"
	FormatOnsite InterviewFormat = "ONSITE"
)

// RequiresMeetingLink reports whether the format needs a live video link.
func (f InterviewFormat) RequiresMeetingLink() bool {
	return f == FormatVideo
}

// InterviewConfig configures auto-scheduling for an INTERVIEW round.
type InterviewConfig struct {
	Enabled                bool            `json:"enabled"`
	AutoSchedule           bool            `json:"auto_schedule"`
	DefaultDurationMinutes int             `json:"default_duration_minutes"`
	Format                 InterviewFormat `json:"format"`
	Location               string          `json:"location,omitempty"`
	EmailTemplateID        string          `json:"email_template_id,omitempty"`
}

// OrderChange is one write produced by the ordering algorithm.
type OrderChange struct {
	RoundID uuid.UUID
	Order   int
}

// Job is the posting a pipeline belongs to.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
