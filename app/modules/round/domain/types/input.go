package roundtypes

import "github.com/google/uuid"

// CreateRoundInput describes a new custom round. A nil Order appends the
// round after the last custom round.
type CreateRoundInput struct {
	JobID            uuid.UUID
	Name             string
	Kind             RoundKind
	Order            *int
	AssignedRoleID   *uuid.UUID
	SyncPermissions  bool
	EmailConfig      EmailConfig
	AssessmentConfig *AssessmentConfig
	InterviewConfig  *InterviewConfig
}

// UpdateRoundInput is a partial update; nil fields are left unchanged.
// Fixed rounds accept everything except Order.
type UpdateRoundInput struct {
	Name             *string
	Order            *int
	AssignedRoleID   *uuid.UUID
	SyncPermissions  *bool
	EmailConfig      *EmailConfig
	OfferConfig      *OfferConfig
	AssessmentConfig *AssessmentConfig
	InterviewConfig  *InterviewConfig
}
