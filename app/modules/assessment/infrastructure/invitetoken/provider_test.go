package invitetoken

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func TestIssueAndVerify(t *testing.T) {
	p := NewProvider(testSecret)
	assessmentID := uuid.New()
	issued := time.Now()

	tok, err := p.Issue(assessmentID, issued)
	require.NoError(t, err)

	got, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, assessmentID, got)
}

func TestTokensAreUnique(t *testing.T) {
	p := NewProvider(testSecret)
	id := uuid.New()
	now := time.Now()

	a, err := p.Issue(id, now)
	require.NoError(t, err)
	b, err := p.Issue(id, now)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyRejects(t *testing.T) {
	p := NewProvider(testSecret)
	valid, err := p.Issue(uuid.New(), time.Now())
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &inviteClaims{AssessmentID: uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &inviteClaims{AssessmentID: "not-a-uuid"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "other secret", token: mustIssue(t, NewProvider("another-secret-that-is-long-enough!!")), wantErr: ErrInvalidSignature},
		{name: "tampered payload", token: tamper(valid), wantErr: ErrInvalidSignature},
		{name: "garbage", token: "abc.def", wantErr: ErrInvalidToken},
		{name: "unsigned", token: noneToken, wantErr: ErrInvalidToken},
		{name: "claims without uuid", token: badID, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		})
	}
}

func mustIssue(t *testing.T, p Provider) string {
	t.Helper()
	tok, err := p.Issue(uuid.New(), time.Now())
	require.NoError(t, err)
	return tok
}

// tamper swaps the signature of tok for one computed over different claims.
func tamper(tok string) string {
	parts := strings.Split(tok, ".")
	other, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &inviteClaims{AssessmentID: uuid.NewString()}).
		SignedString([]byte(testSecret))
	otherParts := strings.Split(other, ".")
	return parts[0] + "." + parts[1] + "." + otherParts[2]
}
