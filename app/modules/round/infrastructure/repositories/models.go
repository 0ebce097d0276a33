package rounddb

import (
	"time"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Job is the posting a pipeline of rounds belongs to.
type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Title     string    `bun:"title,notnull"`
	Location  string    `bun:"location,nullzero"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// JobRound is the persisted form of a round. Configurations are stored as JSONB.
type JobRound struct {
	bun.BaseModel `bun:"table:job_rounds,alias:jr"`

	ID               uuid.UUID                    `bun:"id,pk,type:uuid"`
	JobID            uuid.UUID                    `bun:"job_id,type:uuid,notnull"`
	Name             string                       `bun:"name,notnull"`
	Kind             roundtypes.RoundKind         `bun:"kind,nullzero"`
	Order            int                          `bun:"round_order,notnull"`
	IsFixed          bool                         `bun:"is_fixed,notnull,default:false"`
	FixedKey         roundtypes.FixedKey          `bun:"fixed_key,nullzero"`
	AssignedRoleID   *uuid.UUID                   `bun:"assigned_role_id,type:uuid"`
	SyncPermissions  bool                         `bun:"sync_permissions,notnull,default:false"`
	EmailConfig      roundtypes.EmailConfig       `bun:"email_config,type:jsonb,notnull"`
	OfferConfig      roundtypes.OfferConfig       `bun:"offer_config,type:jsonb,notnull"`
	AssessmentConfig *roundtypes.AssessmentConfig `bun:"assessment_config,type:jsonb"`
	InterviewConfig  *roundtypes.InterviewConfig  `bun:"interview_config,type:jsonb"`
	CreatedAt        time.Time                    `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time                    `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (m *JobRound) toDomain() roundtypes.JobRound {
	return roundtypes.JobRound{
		ID:               m.ID,
		JobID:            m.JobID,
		Name:             m.Name,
		Kind:             m.Kind,
		Order:            m.Order,
		IsFixed:          m.IsFixed,
		FixedKey:         m.FixedKey,
		AssignedRoleID:   m.AssignedRoleID,
		SyncPermissions:  m.SyncPermissions,
		EmailConfig:      m.EmailConfig,
		OfferConfig:      m.OfferConfig,
		AssessmentConfig: m.AssessmentConfig,
		InterviewConfig:  m.InterviewConfig,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromDomain(r *roundtypes.JobRound) *JobRound {
	return &JobRound{
		ID:               r.ID,
		JobID:            r.JobID,
		Name:             r.Name,
		Kind:             r.Kind,
		Order:            r.Order,
		IsFixed:          r.IsFixed,
		FixedKey:         r.FixedKey,
		AssignedRoleID:   r.AssignedRoleID,
		SyncPermissions:  r.SyncPermissions,
		EmailConfig:      r.EmailConfig,
		OfferConfig:      r.OfferConfig,
		AssessmentConfig: r.AssessmentConfig,
		InterviewConfig:  r.InterviewConfig,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
