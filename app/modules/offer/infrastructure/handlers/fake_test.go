package offerhandlers

import (
	"context"

	offerservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/application"
	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	"github.com/google/uuid"
)

type FakeService struct {
	CreateOfferFunc    func(ctx context.Context, params offertypes.CreateOfferParams, actorID uuid.UUID) (offertypes.Offer, error)
	SendOfferFunc      func(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error)
	RespondToOfferFunc func(ctx context.Context, offerID uuid.UUID, response offertypes.Response) (offertypes.Offer, error)
}

func (f *FakeService) CreateOffer(ctx context.Context, params offertypes.CreateOfferParams, actorID uuid.UUID) (offertypes.Offer, error) {
	if f.CreateOfferFunc != nil {
		return f.CreateOfferFunc(ctx, params, actorID)
	}
	return offertypes.Offer{}, nil
}

func (f *FakeService) SendOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error) {
	if f.SendOfferFunc != nil {
		return f.SendOfferFunc(ctx, offerID)
	}
	return offertypes.Offer{ID: offerID, Status: offertypes.StatusSent}, nil
}

func (f *FakeService) RespondToOffer(ctx context.Context, offerID uuid.UUID, response offertypes.Response) (offertypes.Offer, error) {
	if f.RespondToOfferFunc != nil {
		return f.RespondToOfferFunc(ctx, offerID, response)
	}
	return offertypes.Offer{ID: offerID}, nil
}

func (f *FakeService) GetOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error) {
	return offertypes.Offer{ID: offerID}, nil
}

func (f *FakeService) ListOffers(ctx context.Context, applicationID uuid.UUID) ([]offertypes.Offer, error) {
	return []offertypes.Offer{}, nil
}

var _ offerservice.Service = (*FakeService)(nil)
