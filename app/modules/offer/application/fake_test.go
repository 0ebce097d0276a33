package offerservice

import (
	"context"
	"time"

	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	offerdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Offer Repo
// ------------------------

type FakeOfferRepo struct {
	trace  []string
	offers map[uuid.UUID]offertypes.Offer

	CreateFunc func(ctx context.Context, db bun.IDB, offer *offerdb.Offer) (offertypes.Offer, error)
}

func NewFakeOfferRepo() *FakeOfferRepo {
	return &FakeOfferRepo{offers: map[uuid.UUID]offertypes.Offer{}}
}

func (f *FakeOfferRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeOfferRepo) Trace() []string { return f.trace }

func (f *FakeOfferRepo) Create(ctx context.Context, db bun.IDB, offer *offerdb.Offer) (offertypes.Offer, error) {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, offer)
	}
	o := offertypes.Offer{
		ID:             offer.ID,
		ApplicationID:  offer.ApplicationID,
		CandidateName:  offer.CandidateName,
		CandidateEmail: offer.CandidateEmail,
		Status:         offer.Status,
		Salary:         offer.Salary,
		Currency:       offer.Currency,
		SalaryPeriod:   offer.SalaryPeriod,
		StartDate:      offer.StartDate,
		ExpiresAt:      offer.ExpiresAt,
		Benefits:       offer.Benefits,
		VacationDays:   offer.VacationDays,
		CreatedBy:      offer.CreatedBy,
		CreatedAt:      offer.CreatedAt,
	}
	f.offers[o.ID] = o
	return o, nil
}

func (f *FakeOfferRepo) Get(ctx context.Context, db bun.IDB, id uuid.UUID) (offertypes.Offer, error) {
	f.record("Get")
	o, ok := f.offers[id]
	if !ok {
		return offertypes.Offer{}, offerdb.ErrNotFound
	}
	return o, nil
}

func (f *FakeOfferRepo) ListByApplication(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]offertypes.Offer, error) {
	f.record("ListByApplication")
	var out []offertypes.Offer
	for _, o := range f.offers {
		if o.ApplicationID == applicationID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *FakeOfferRepo) Transition(ctx context.Context, db bun.IDB, id uuid.UUID, from, to offertypes.Status, at time.Time) (offertypes.Offer, error) {
	f.record("Transition")
	o, ok := f.offers[id]
	if !ok {
		return offertypes.Offer{}, offerdb.ErrNotFound
	}
	if o.Status != from {
		return offertypes.Offer{}, offerdb.ErrStatusConflict
	}
	o.Status = to
	switch to {
	case offertypes.StatusSent:
		o.SentAt = &at
	default:
		o.RespondedAt = &at
	}
	f.offers[id] = o
	return o, nil
}

var _ offerdb.Repository = (*FakeOfferRepo)(nil)

// ------------------------
// Fake Notifier
// ------------------------

type FakeNotifier struct {
	sent []notificationtypes.OfferEmail
	err  error
}

func (f *FakeNotifier) SendOfferEmail(ctx context.Context, email notificationtypes.OfferEmail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}
