package roundtypes

// Stage is the coarse, advisory label stored on an application for reporting.
type Stage string

const (
	StageNewApplication     Stage = "NEW_APPLICATION"
	StageResumeReview       Stage = "RESUME_REVIEW"
	StageTechnicalInterview Stage = "TECHNICAL_INTERVIEW"
	StageOfferExtended      Stage = "OFFER_EXTENDED"
	StageOfferAccepted      Stage = "OFFER_ACCEPTED"
	StageRejected           Stage = "REJECTED"
)

// Stages lists every stage in funnel order.
var Stages = []Stage{
	StageNewApplication,
	StageResumeReview,
	StageTechnicalInterview,
	StageOfferExtended,
	StageOfferAccepted,
	StageRejected,
}

// StageFor maps a round to its advisory stage. Fixed rounds map by key,
// custom rounds by kind; anything else is a new application.
func StageFor(r JobRound) Stage {
	if r.IsFixed {
		switch r.FixedKey {
		case FixedNew:
			return StageNewApplication
		case FixedOffer:
			return StageOfferExtended
		case FixedHired:
			return StageOfferAccepted
		case FixedRejected:
			return StageRejected
		}
		return StageNewApplication
	}

	switch r.Kind {
	case KindAssessment:
		return StageResumeReview
	case KindInterview:
		return StageTechnicalInterview
	}
	return StageNewApplication
}
