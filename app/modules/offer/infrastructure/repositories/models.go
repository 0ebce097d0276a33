package offerdb

import (
	"time"

	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Offer is the bun model of an offer row.
type Offer struct {
	bun.BaseModel `bun:"table:offers,alias:o"`

	ID              uuid.UUID         `bun:"id,pk,type:uuid"`
	ApplicationID   uuid.UUID         `bun:"application_id,type:uuid,notnull"`
	CandidateName   string            `bun:"candidate_name,notnull"`
	CandidateEmail  string            `bun:"candidate_email,notnull"`
	Status          offertypes.Status `bun:"status,notnull"`
	Salary          float64           `bun:"salary,notnull"`
	Currency        string            `bun:"currency,notnull"`
	SalaryPeriod    string            `bun:"salary_period,notnull"`
	StartDate       time.Time         `bun:"start_date,notnull"`
	ExpiresAt       time.Time         `bun:"expires_at,notnull"`
	Location        string            `bun:"location"`
	WorkArrangement string            `bun:"work_arrangement"`
	Benefits        []string          `bun:"benefits,array"`
	VacationDays    int               `bun:"vacation_days,notnull"`
	TemplateID      string            `bun:"template_id"`
	CreatedBy       *uuid.UUID        `bun:"created_by,type:uuid"`
	SentAt          *time.Time        `bun:"sent_at"`
	RespondedAt     *time.Time        `bun:"responded_at"`
	CreatedAt       time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (o *Offer) toDomain() offertypes.Offer {
	return offertypes.Offer{
		ID:              o.ID,
		ApplicationID:   o.ApplicationID,
		CandidateName:   o.CandidateName,
		CandidateEmail:  o.CandidateEmail,
		Status:          o.Status,
		Salary:          o.Salary,
		Currency:        o.Currency,
		SalaryPeriod:    o.SalaryPeriod,
		StartDate:       o.StartDate,
		ExpiresAt:       o.ExpiresAt,
		Location:        o.Location,
		WorkArrangement: o.WorkArrangement,
		Benefits:        o.Benefits,
		VacationDays:    o.VacationDays,
		TemplateID:      o.TemplateID,
		CreatedBy:       o.CreatedBy,
		SentAt:          o.SentAt,
		RespondedAt:     o.RespondedAt,
		CreatedAt:       o.CreatedAt,
	}
}
