package rounddb

import (
	"context"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for job and round persistence.
// Every method accepts an optional bun.IDB so callers can run it inside a
// transaction; nil uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound / ErrJobNotFound: the row does not exist
//   - Other errors: infrastructure failures
type Repository interface {
	GetJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) (*Job, error)
	CreateJob(ctx context.Context, db bun.IDB, job *Job) error

	// LockJob serializes order mutations for one job until the transaction ends.
	LockJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) error

	// InsertFixedRounds creates any missing anchor rounds and reports how many were created.
	InsertFixedRounds(ctx context.Context, db bun.IDB, jobID uuid.UUID) (int, error)

	ListByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]roundtypes.JobRound, error)
	GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*roundtypes.JobRound, error)
	GetFixed(ctx context.Context, db bun.IDB, jobID uuid.UUID, key roundtypes.FixedKey) (*roundtypes.JobRound, error)

	Create(ctx context.Context, db bun.IDB, round *roundtypes.JobRound) error
	// Update writes everything except the order, which only moves through ApplyOrderChanges.
	Update(ctx context.Context, db bun.IDB, round *roundtypes.JobRound) error
	ApplyOrderChanges(ctx context.Context, db bun.IDB, changes []roundtypes.OrderChange) error
	Delete(ctx context.Context, db bun.IDB, roundID uuid.UUID) error
}
