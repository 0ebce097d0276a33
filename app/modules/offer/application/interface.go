package offerservice

import (
	"context"

	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	"github.com/google/uuid"
)

// Service issues employment offers.
type Service interface {
	CreateOffer(ctx context.Context, params offertypes.CreateOfferParams, actorID uuid.UUID) (offertypes.Offer, error)
	SendOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error)
	RespondToOffer(ctx context.Context, offerID uuid.UUID, response offertypes.Response) (offertypes.Offer, error)
	GetOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error)
	ListOffers(ctx context.Context, applicationID uuid.UUID) ([]offertypes.Offer, error)
}
