package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a round is not found.
	ErrNotFound = fmt.Errorf("round %w", apperrors.ErrNotFound)
	// ErrJobNotFound is returned when a job is not found.
	ErrJobNotFound = fmt.Errorf("job %w", apperrors.ErrNotFound)
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetJob retrieves a job by id.
func (r *Impl) GetJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) (*Job, error) {
	db = r.resolveDB(db)
	job := new(Job)
	err := db.NewSelect().
		Model(job).
		Where("id = ?", jobID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// CreateJob inserts a job.
func (r *Impl) CreateJob(ctx context.Context, db bun.IDB, job *Job) error {
	db = r.resolveDB(db)
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(job).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// LockJob takes a transaction-scoped advisory lock keyed by the job id.
func (r *Impl) LockJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) error {
	db = r.resolveDB(db)
	if _, err := db.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", jobID.String()); err != nil {
		return fmt.Errorf("failed to lock job rounds: %w", err)
	}
	return nil
}

// InsertFixedRounds inserts the four anchors, skipping any that already exist.
func (r *Impl) InsertFixedRounds(ctx context.Context, db bun.IDB, jobID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()

	anchors := make([]*JobRound, 0, len(roundtypes.FixedKeys))
	for _, key := range roundtypes.FixedKeys {
		anchors = append(anchors, &JobRound{
			ID:        uuid.New(),
			JobID:     jobID,
			Name:      roundtypes.FixedName(key),
			Order:     roundtypes.FixedOrder(key),
			IsFixed:   true,
			FixedKey:  key,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	res, err := db.NewInsert().
		Model(&anchors).
		On("CONFLICT (job_id, fixed_key) WHERE fixed_key IS NOT NULL DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert fixed rounds: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

// ListByJob returns every round of a job in ascending order.
func (r *Impl) ListByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]roundtypes.JobRound, error) {
	db = r.resolveDB(db)
	var models []JobRound
	err := db.NewSelect().
		Model(&models).
		Where("job_id = ?", jobID).
		OrderExpr("round_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	rounds := make([]roundtypes.JobRound, 0, len(models))
	for i := range models {
		rounds = append(rounds, models[i].toDomain())
	}
	return rounds, nil
}

// GetByID retrieves a round by id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*roundtypes.JobRound, error) {
	db = r.resolveDB(db)
	m := new(JobRound)
	err := db.NewSelect().
		Model(m).
		Where("id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	round := m.toDomain()
	return &round, nil
}

// GetFixed retrieves a job's anchor round by key.
func (r *Impl) GetFixed(ctx context.Context, db bun.IDB, jobID uuid.UUID, key roundtypes.FixedKey) (*roundtypes.JobRound, error) {
	db = r.resolveDB(db)
	m := new(JobRound)
	err := db.NewSelect().
		Model(m).
		Where("job_id = ?", jobID).
		Where("fixed_key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fixed round: %w", err)
	}
	round := m.toDomain()
	return &round, nil
}

// Create inserts a custom round.
func (r *Impl) Create(ctx context.Context, db bun.IDB, round *roundtypes.JobRound) error {
	db = r.resolveDB(db)
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	now := time.Now().UTC()
	round.CreatedAt, round.UpdatedAt = now, now

	if _, err := db.NewInsert().Model(fromDomain(round)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// Update writes name, assignment and configuration columns.
func (r *Impl) Update(ctx context.Context, db bun.IDB, round *roundtypes.JobRound) error {
	db = r.resolveDB(db)
	round.UpdatedAt = time.Now().UTC()

	res, err := db.NewUpdate().
		Model(fromDomain(round)).
		Column("name", "assigned_role_id", "sync_permissions", "email_config", "offer_config",
			"assessment_config", "interview_config", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyOrderChanges writes new orders. The (job_id, round_order) constraint
// is deferred, so intermediate collisions inside the transaction are fine.
func (r *Impl) ApplyOrderChanges(ctx context.Context, db bun.IDB, changes []roundtypes.OrderChange) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for _, c := range changes {
		_, err := db.NewUpdate().
			Model((*JobRound)(nil)).
			Set("round_order = ?", c.Order).
			Set("updated_at = ?", now).
			Where("id = ?", c.RoundID).
			Where("is_fixed = false").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to reorder round %s: %w", c.RoundID, err)
		}
	}
	return nil
}

// Delete removes a custom round. Anchors are never deleted.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*JobRound)(nil)).
		Where("id = ?", roundID).
		Where("is_fixed = false").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
