package offertypes

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an offer.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusSent     Status = "SENT"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
)

// Offer is one employment offer tied to one application.
type Offer struct {
	ID              uuid.UUID  `json:"id"`
	ApplicationID   uuid.UUID  `json:"application_id"`
	CandidateName   string     `json:"candidate_name"`
	CandidateEmail  string     `json:"candidate_email"`
	Status          Status     `json:"status"`
	Salary          float64    `json:"salary"`
	Currency        string     `json:"currency"`
	SalaryPeriod    string     `json:"salary_period"`
	StartDate       time.Time  `json:"start_date"`
	ExpiresAt       time.Time  `json:"expires_at"`
	Location        string     `json:"location,omitempty"`
	WorkArrangement string     `json:"work_arrangement,omitempty"`
	Benefits        []string   `json:"benefits,omitempty"`
	VacationDays    int        `json:"vacation_days"`
	TemplateID      string     `json:"template_id,omitempty"`
	CreatedBy       *uuid.UUID `json:"created_by,omitempty"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateOfferParams are the terms of a new offer.
type CreateOfferParams struct {
	ApplicationID   uuid.UUID `json:"application_id"`
	CandidateName   string    `json:"candidate_name"`
	CandidateEmail  string    `json:"candidate_email"`
	Salary          float64   `json:"salary"`
	Currency        string    `json:"currency"`
	SalaryPeriod    string    `json:"salary_period"`
	StartDate       time.Time `json:"start_date"`
	ExpiresAt       time.Time `json:"expires_at"`
	Location        string    `json:"location,omitempty"`
	WorkArrangement string    `json:"work_arrangement,omitempty"`
	Benefits        []string  `json:"benefits,omitempty"`
	VacationDays    int       `json:"vacation_days"`
	TemplateID      string    `json:"template_id,omitempty"`
}

// Response is the candidate's answer to a sent offer.
type Response string

const (
	ResponseAccept  Response = "ACCEPT"
	ResponseDecline Response = "DECLINE"
)
