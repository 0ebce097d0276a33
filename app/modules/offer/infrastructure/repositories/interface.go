package offerdb

import (
	"context"
	"time"

	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists offers.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, offer *Offer) (offertypes.Offer, error)
	Get(ctx context.Context, db bun.IDB, id uuid.UUID) (offertypes.Offer, error)
	ListByApplication(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]offertypes.Offer, error)
	// Transition moves an offer from one status to another, stamping at on the
	// matching timestamp column. It returns ErrStatusConflict when the offer is
	// not in from.
	Transition(ctx context.Context, db bun.IDB, id uuid.UUID, from, to offertypes.Status, at time.Time) (offertypes.Offer, error)
}
