package roundtypes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundRef(t *testing.T) {
	jobID := uuid.New()
	roundID := uuid.New()

	tests := []struct {
		name    string
		input   string
		wantID  uuid.UUID
		wantJob uuid.UUID
		wantKey FixedKey
		wantErr bool
	}{
		{name: "plain id", input: roundID.String(), wantID: roundID},
		{name: "offer alias", input: "fixed-OFFER-" + jobID.String(), wantJob: jobID, wantKey: FixedOffer},
		{name: "rejected alias", input: "fixed-REJECTED-" + jobID.String(), wantJob: jobID, wantKey: FixedRejected},
		{name: "unknown key", input: "fixed-LUNCH-" + jobID.String(), wantErr: true},
		{name: "bad job id", input: "fixed-NEW-not-a-uuid", wantErr: true},
		{name: "garbage", input: "round-7", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRoundRef(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, ref.IsZero())
				return
			}
			require.NoError(t, err)

			if id, ok := ref.ID(); ok {
				assert.Equal(t, tt.wantID, id)
				return
			}
			job, key, ok := ref.FixedKey()
			require.True(t, ok)
			assert.Equal(t, tt.wantJob, job)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestRoundRefString(t *testing.T) {
	jobID := uuid.New()
	alias := RefByFixedKey(jobID, FixedOffer).String()

	ref, err := ParseRoundRef(alias)
	require.NoError(t, err)
	assert.Equal(t, RefByFixedKey(jobID, FixedOffer), ref)
	assert.Equal(t, "<nil round ref>", RoundRef{}.String())
}
