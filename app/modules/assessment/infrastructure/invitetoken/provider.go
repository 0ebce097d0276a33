// Package invitetoken signs the links candidates use to open an assessment
// without an account.
package invitetoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Provider issues and verifies invitation tokens.
type Provider interface {
	// Issue signs a token naming the assessment.
	Issue(assessmentID uuid.UUID, issuedAt time.Time) (string, error)
	// Verify checks the signature and returns the assessment id.
	Verify(token string) (uuid.UUID, error)
}

// inviteClaims carries the assessment id. Expiry lives on the assessment row
// so a lapsed invitation can still be recognised and marked EXPIRED.
type inviteClaims struct {
	jwt.RegisteredClaims
	AssessmentID string `json:"aid"`
}

type provider struct {
	secret []byte
}

// NewProvider creates a Provider signing with HS256.
func NewProvider(secret string) Provider {
	return &provider{secret: []byte(secret)}
}

func (p *provider) Issue(assessmentID uuid.UUID, issuedAt time.Time) (string, error) {
	claims := &inviteClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			Subject:  "assessment-invite",
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
		AssessmentID: assessmentID.String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign invitation token: %w", err)
	}
	return signed, nil
}

func (p *provider) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &inviteClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return uuid.Nil, ErrInvalidSignature
		}
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*inviteClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.AssessmentID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
