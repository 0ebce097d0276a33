package pipelineservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
)

// Offer offsets used when the round leaves them unset.
const (
	defaultStartDateOffsetDays = 14
	defaultExpiryOffsetDays    = 7
)

func (s *PipelineService) dispatchOffer(ctx context.Context, job automationJob) (pipelinetypes.Outcome, string, error) {
	cfg := job.round.OfferConfig
	if !cfg.AutoSend {
		return skipped("offer auto-send disabled")
	}

	params := offerParams(job, cfg)
	if params.Location == "" {
		if posting, err := s.rounds.GetJob(ctx, job.app.JobID); err == nil {
			params.Location = posting.Location
		}
	}

	offer, err := s.offers.CreateOffer(ctx, params, job.actorID)
	if err != nil {
		return pipelinetypes.OutcomeFailed, "", fmt.Errorf("failed to create offer: %w", err)
	}
	if _, err := s.offers.SendOffer(ctx, offer.ID); err != nil {
		return pipelinetypes.OutcomeFailed, "", fmt.Errorf("failed to send offer %s: %w", offer.ID, err)
	}
	return succeeded("offer " + offer.ID.String())
}

func offerParams(job automationJob, cfg roundtypes.OfferConfig) offertypes.CreateOfferParams {
	startOffset := cfg.StartDateOffsetDays
	if startOffset <= 0 {
		startOffset = defaultStartDateOffsetDays
	}
	expiryOffset := cfg.ExpiryOffsetDays
	if expiryOffset <= 0 {
		expiryOffset = defaultExpiryOffsetDays
	}
	day := time.Date(job.now.Year(), job.now.Month(), job.now.Day(), 0, 0, 0, 0, time.UTC)

	return offertypes.CreateOfferParams{
		ApplicationID:   job.app.ID,
		CandidateName:   job.app.CandidateName,
		CandidateEmail:  job.app.CandidateEmail,
		Salary:          cfg.Salary,
		Currency:        cfg.Currency,
		SalaryPeriod:    cfg.SalaryPeriod,
		StartDate:       day.AddDate(0, 0, startOffset),
		ExpiresAt:       job.now.AddDate(0, 0, expiryOffset),
		Location:        cfg.Location,
		WorkArrangement: cfg.WorkArrangement,
		Benefits:        parseBenefits(cfg.DefaultBenefits),
		VacationDays:    cfg.VacationDays,
		TemplateID:      cfg.TemplateID,
	}
}

// parseBenefits splits "Health, Dental, 401k" into trimmed, non-empty entries.
func parseBenefits(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
