package roundutil

import (
	"fmt"
	"log/slog"
	"strings"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
)

// RoundValidator defines the interface for round validation.
type RoundValidator interface {
	ValidateCreateRoundInput(input roundtypes.CreateRoundInput) []string
	ValidateUpdateRoundInput(round roundtypes.JobRound, input roundtypes.UpdateRoundInput) []string
}

// RoundValidatorImpl is the concrete implementation of the RoundValidator interface.
type RoundValidatorImpl struct {
	logger *slog.Logger
}

// NewRoundValidator creates a new instance of RoundValidatorImpl.
func NewRoundValidator() RoundValidator {
	return &RoundValidatorImpl{
		logger: slog.Default(),
	}
}

// ValidateCreateRoundInput validates the input for creating a new custom round.
func (v *RoundValidatorImpl) ValidateCreateRoundInput(input roundtypes.CreateRoundInput) []string {
	var errs []string

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}

	if !input.Kind.IsValid() {
		errs = append(errs, fmt.Sprintf("kind %q must be ASSESSMENT or INTERVIEW", input.Kind))
	}

	if input.AssessmentConfig != nil && input.Kind != roundtypes.KindAssessment {
		errs = append(errs, "assessment config is only allowed on ASSESSMENT rounds")
	}

	if input.InterviewConfig != nil && input.Kind != roundtypes.KindInterview {
		errs = append(errs, "interview config is only allowed on INTERVIEW rounds")
	}

	errs = append(errs, validateEmailConfig(input.EmailConfig)...)
	errs = append(errs, validateAssessmentConfig(input.AssessmentConfig)...)
	errs = append(errs, validateInterviewConfig(input.InterviewConfig)...)

	if len(errs) > 0 {
		v.logger.Debug("round input rejected", slog.Any("errors", errs))
	}
	return errs
}

// ValidateUpdateRoundInput validates a partial update against the round it applies to.
func (v *RoundValidatorImpl) ValidateUpdateRoundInput(round roundtypes.JobRound, input roundtypes.UpdateRoundInput) []string {
	var errs []string

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}

	if input.Order != nil && round.IsFixed {
		errs = append(errs, "order of a fixed round cannot change")
	}

	if input.OfferConfig != nil && round.FixedKey != roundtypes.FixedOffer {
		errs = append(errs, "offer config is only allowed on the OFFER round")
	}

	if input.AssessmentConfig != nil {
		if round.IsFixed || round.Kind != roundtypes.KindAssessment {
			errs = append(errs, "assessment config is only allowed on ASSESSMENT rounds")
		}
		if next := input.AssessmentConfig.NextRoundID; next != nil && *next == round.ID {
			errs = append(errs, "next round cannot be the round itself")
		}
	}

	if input.InterviewConfig != nil && (round.IsFixed || round.Kind != roundtypes.KindInterview) {
		errs = append(errs, "interview config is only allowed on INTERVIEW rounds")
	}

	if input.EmailConfig != nil {
		errs = append(errs, validateEmailConfig(*input.EmailConfig)...)
	}
	errs = append(errs, validateAssessmentConfig(input.AssessmentConfig)...)
	errs = append(errs, validateInterviewConfig(input.InterviewConfig)...)
	errs = append(errs, validateOfferConfig(input.OfferConfig)...)

	return errs
}

func validateEmailConfig(c roundtypes.EmailConfig) []string {
	if c.Enabled && c.TemplateID == "" {
		return []string{"email template is required when stage emails are enabled"}
	}
	return nil
}

func validateAssessmentConfig(c *roundtypes.AssessmentConfig) []string {
	if c == nil {
		return nil
	}
	var errs []string

	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		errs = append(errs, "pass threshold must be between 0 and 100")
	}
	if c.DeadlineDays != nil && *c.DeadlineDays <= 0 {
		errs = append(errs, "deadline days must be positive")
	}

	switch c.EvaluationMode {
	case "", roundtypes.EvaluationGrading:
	case roundtypes.EvaluationVoting:
		switch c.VotingRule {
		case "", roundtypes.VotingUnanimous, roundtypes.VotingMajority, roundtypes.VotingMinApprovals:
		default:
			errs = append(errs, fmt.Sprintf("unknown voting rule %q", c.VotingRule))
		}
		if c.MinApprovalsCount < 0 {
			errs = append(errs, "min approvals count cannot be negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown evaluation mode %q", c.EvaluationMode))
	}

	if c.AutoMoveOnPass && c.NextRoundID == nil {
		errs = append(errs, "auto move on pass requires a next round")
	}

	for i, q := range c.Questions {
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("question %d has no text", i+1))
		}
		if q.Points < 0 {
			errs = append(errs, fmt.Sprintf("question %d has negative points", i+1))
		}
	}
	return errs
}

func validateInterviewConfig(c *roundtypes.InterviewConfig) []string {
	if c == nil {
		return nil
	}
	var errs []string

	if c.DefaultDurationMinutes < 0 {
		errs = append(errs, "default duration cannot be negative")
	}
	switch c.Format {
	case "", roundtypes.FormatVideo, roundtypes.FormatPhone, roundtypes.FormatOnsite:
	default:
		errs = append(errs, fmt.Sprintf("unknown interview format %q", c.Format))
	}
	return errs
}

func validateOfferConfig(c *roundtypes.OfferConfig) []string {
	if c == nil {
		return nil
	}
	var errs []string

	if c.StartDateOffsetDays < 0 || c.ExpiryOffsetDays < 0 {
		errs = append(errs, "offer date offsets cannot be negative")
	}
	if c.Salary < 0 {
		errs = append(errs, "salary cannot be negative")
	}
	if c.VacationDays < 0 {
		errs = append(errs, "vacation days cannot be negative")
	}
	return errs
}
