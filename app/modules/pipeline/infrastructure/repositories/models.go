package pipelinedb

import (
	"time"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Application is the bun model of an application row.
type Application struct {
	bun.BaseModel `bun:"table:applications,alias:a"`

	ID             uuid.UUID                       `bun:"id,pk,type:uuid"`
	JobID          uuid.UUID                       `bun:"job_id,type:uuid,notnull"`
	CandidateID    uuid.UUID                       `bun:"candidate_id,type:uuid,notnull"`
	CandidateName  string                          `bun:"candidate_name,notnull"`
	CandidateEmail string                          `bun:"candidate_email,notnull"`
	Stage          roundtypes.Stage                `bun:"stage,notnull"`
	Status         pipelinetypes.ApplicationStatus `bun:"status,notnull"`
	CurrentRoundID *uuid.UUID                      `bun:"current_round_id,type:uuid"`
	CreatedAt      time.Time                       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time                       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (a *Application) toDomain() pipelinetypes.Application {
	return pipelinetypes.Application{
		ID:             a.ID,
		JobID:          a.JobID,
		CandidateID:    a.CandidateID,
		CandidateName:  a.CandidateName,
		CandidateEmail: a.CandidateEmail,
		Stage:          a.Stage,
		Status:         a.Status,
		CurrentRoundID: a.CurrentRoundID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// RoundProgress is the bun model of an application_round_progress row.
type RoundProgress struct {
	bun.BaseModel `bun:"table:application_round_progress,alias:arp"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid"`
	ApplicationID uuid.UUID  `bun:"application_id,type:uuid,notnull"`
	RoundID       uuid.UUID  `bun:"round_id,type:uuid,notnull"`
	EnteredBy     *uuid.UUID `bun:"entered_by,type:uuid"`
	InterviewID   *uuid.UUID `bun:"interview_id,type:uuid"`
	EnteredAt     time.Time  `bun:"entered_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (p *RoundProgress) toDomain() pipelinetypes.RoundProgress {
	return pipelinetypes.RoundProgress{
		ID:            p.ID,
		ApplicationID: p.ApplicationID,
		RoundID:       p.RoundID,
		EnteredBy:     p.EnteredBy,
		InterviewID:   p.InterviewID,
		EnteredAt:     p.EnteredAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Interview is the bun model of an interviews row.
type Interview struct {
	bun.BaseModel `bun:"table:interviews,alias:i"`

	ID              uuid.UUID                     `bun:"id,pk,type:uuid"`
	ApplicationID   uuid.UUID                     `bun:"application_id,type:uuid,notnull"`
	RoundID         uuid.UUID                     `bun:"round_id,type:uuid,notnull"`
	ScheduledAt     time.Time                     `bun:"scheduled_at,notnull"`
	DurationMinutes int                           `bun:"duration_minutes,notnull"`
	Format          roundtypes.InterviewFormat    `bun:"format,notnull"`
	Location        string                        `bun:"location"`
	MeetingLink     *string                       `bun:"meeting_link"`
	Status          pipelinetypes.InterviewStatus `bun:"status,notnull"`
	IsAutoScheduled bool                          `bun:"is_auto_scheduled,notnull"`
	CreatedAt       time.Time                     `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (i *Interview) toDomain() pipelinetypes.Interview {
	return pipelinetypes.Interview{
		ID:              i.ID,
		ApplicationID:   i.ApplicationID,
		RoundID:         i.RoundID,
		ScheduledAt:     i.ScheduledAt,
		DurationMinutes: i.DurationMinutes,
		Format:          i.Format,
		Location:        i.Location,
		MeetingLink:     i.MeetingLink,
		Status:          i.Status,
		IsAutoScheduled: i.IsAutoScheduled,
		CreatedAt:       i.CreatedAt,
	}
}

func interviewFromDomain(i pipelinetypes.Interview) *Interview {
	return &Interview{
		ID:              i.ID,
		ApplicationID:   i.ApplicationID,
		RoundID:         i.RoundID,
		ScheduledAt:     i.ScheduledAt,
		DurationMinutes: i.DurationMinutes,
		Format:          i.Format,
		Location:        i.Location,
		MeetingLink:     i.MeetingLink,
		Status:          i.Status,
		IsAutoScheduled: i.IsAutoScheduled,
		CreatedAt:       i.CreatedAt,
	}
}

// AutomationRun is the bun model of an automation_runs row.
type AutomationRun struct {
	bun.BaseModel `bun:"table:automation_runs,alias:ar"`

	ID            uuid.UUID                `bun:"id,pk,type:uuid"`
	ApplicationID uuid.UUID                `bun:"application_id,type:uuid,notnull"`
	RoundID       uuid.UUID                `bun:"round_id,type:uuid,notnull"`
	Dispatcher    pipelinetypes.Dispatcher `bun:"dispatcher,notnull"`
	Outcome       pipelinetypes.Outcome    `bun:"outcome,notnull"`
	Detail        string                   `bun:"detail"`
	CreatedAt     time.Time                `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r *AutomationRun) toDomain() pipelinetypes.AutomationRun {
	return pipelinetypes.AutomationRun{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		RoundID:       r.RoundID,
		Dispatcher:    r.Dispatcher,
		Outcome:       r.Outcome,
		Detail:        r.Detail,
		CreatedAt:     r.CreatedAt,
	}
}
