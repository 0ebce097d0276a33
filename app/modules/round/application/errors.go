package roundservice

import (
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
)

var (
	// ErrFixedRound is returned when deleting or reordering an anchor round.
	ErrFixedRound = fmt.Errorf("fixed rounds cannot be deleted or reordered: %w", apperrors.ErrInvalidState)

	// ErrNoCapacity is returned when the custom run would reach the terminal anchors.
	ErrNoCapacity = fmt.Errorf("job has no room for another custom round: %w", apperrors.ErrInvalidState)
)

func validationError(errs []string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, strings.Join(errs, "; "))
}
