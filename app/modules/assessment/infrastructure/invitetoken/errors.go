package invitetoken

import (
	"fmt"

	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
)

var (
	// ErrInvalidToken is returned when the token is malformed or carries no assessment.
	// It maps to not-found so probing callers learn nothing.
	ErrInvalidToken = fmt.Errorf("invitation token %w", apperrors.ErrNotFound)

	// ErrInvalidSignature is returned when the token was not signed with our secret.
	ErrInvalidSignature = fmt.Errorf("invitation token signature: %w", apperrors.ErrNotFound)
)
