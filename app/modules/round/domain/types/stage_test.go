package roundtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageFor(t *testing.T) {
	tests := []struct {
		name  string
		round JobRound
		want  Stage
	}{
		{name: "fixed NEW", round: JobRound{IsFixed: true, FixedKey: FixedNew}, want: StageNewApplication},
		{name: "fixed OFFER", round: JobRound{IsFixed: true, FixedKey: FixedOffer}, want: StageOfferExtended},
		{name: "fixed HIRED", round: JobRound{IsFixed: true, FixedKey: FixedHired}, want: StageOfferAccepted},
		{name: "fixed REJECTED", round: JobRound{IsFixed: true, FixedKey: FixedRejected}, want: StageRejected},
		{name: "fixed key wins over kind", round: JobRound{IsFixed: true, FixedKey: FixedOffer, Kind: KindInterview}, want: StageOfferExtended},
		{name: "assessment", round: JobRound{Kind: KindAssessment}, want: StageResumeReview},
		{name: "interview", round: JobRound{Kind: KindInterview}, want: StageTechnicalInterview},
		{name: "unknown kind", round: JobRound{Kind: "PANEL"}, want: StageNewApplication},
		{name: "fixed without key", round: JobRound{IsFixed: true}, want: StageNewApplication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StageFor(tt.round))
		})
	}
}
