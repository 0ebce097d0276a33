package offerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when an offer is not found.
	ErrNotFound = fmt.Errorf("offer %w", apperrors.ErrNotFound)
	// ErrStatusConflict is returned when an offer is not in the expected status.
	ErrStatusConflict = fmt.Errorf("offer status changed: %w", apperrors.ErrInvalidState)
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new offer repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts an offer.
func (r *Impl) Create(ctx context.Context, db bun.IDB, offer *Offer) (offertypes.Offer, error) {
	db = r.resolveDB(db)
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(offer).Returning("*").Exec(ctx); err != nil {
		return offertypes.Offer{}, fmt.Errorf("failed to create offer: %w", err)
	}
	return offer.toDomain(), nil
}

// Get retrieves an offer by id.
func (r *Impl) Get(ctx context.Context, db bun.IDB, id uuid.UUID) (offertypes.Offer, error) {
	db = r.resolveDB(db)
	model := new(Offer)
	if err := db.NewSelect().Model(model).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return offertypes.Offer{}, ErrNotFound
		}
		return offertypes.Offer{}, fmt.Errorf("failed to get offer: %w", err)
	}
	return model.toDomain(), nil
}

// ListByApplication returns an application's offers, newest first.
func (r *Impl) ListByApplication(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]offertypes.Offer, error) {
	db = r.resolveDB(db)
	var models []Offer
	err := db.NewSelect().
		Model(&models).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	out := make([]offertypes.Offer, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// Transition updates status with a compare-and-set on the current status.
func (r *Impl) Transition(ctx context.Context, db bun.IDB, id uuid.UUID, from, to offertypes.Status, at time.Time) (offertypes.Offer, error) {
	db = r.resolveDB(db)
	model := &Offer{ID: id, Status: to}

	q := db.NewUpdate().
		Model(model).
		Column("status").
		Where("id = ?", id).
		Where("status = ?", from).
		Returning("*")
	switch to {
	case offertypes.StatusSent:
		q = q.Set("sent_at = ?", at)
	case offertypes.StatusAccepted, offertypes.StatusDeclined:
		q = q.Set("responded_at = ?", at)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return offertypes.Offer{}, fmt.Errorf("failed to update offer status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return offertypes.Offer{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.Get(ctx, db, id); getErr != nil {
			return offertypes.Offer{}, getErr
		}
		return offertypes.Offer{}, ErrStatusConflict
	}
	return model.toDomain(), nil
}
