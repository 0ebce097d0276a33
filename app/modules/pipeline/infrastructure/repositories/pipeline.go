package pipelinedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = fmt.Errorf("application %w", apperrors.ErrNotFound)
	// ErrOpenInterviewExists is returned when an open interview already covers the pair.
	ErrOpenInterviewExists = fmt.Errorf("open interview already exists: %w", apperrors.ErrInvalidState)
)

const uniqueViolation = "23505"

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new pipeline repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}

// CreateApplication inserts an application.
func (r *Impl) CreateApplication(ctx context.Context, db bun.IDB, app *Application) (pipelinetypes.Application, error) {
	db = r.resolveDB(db)
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(app).Returning("*").Exec(ctx); err != nil {
		return pipelinetypes.Application{}, fmt.Errorf("failed to create application: %w", err)
	}
	return app.toDomain(), nil
}

// GetApplication retrieves an application by id.
func (r *Impl) GetApplication(ctx context.Context, db bun.IDB, applicationID uuid.UUID) (pipelinetypes.Application, error) {
	db = r.resolveDB(db)
	model := new(Application)
	if err := db.NewSelect().Model(model).Where("id = ?", applicationID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pipelinetypes.Application{}, ErrApplicationNotFound
		}
		return pipelinetypes.Application{}, fmt.Errorf("failed to get application: %w", err)
	}
	return model.toDomain(), nil
}

// ListApplicationsByJob returns a job's applications, oldest first.
func (r *Impl) ListApplicationsByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]pipelinetypes.Application, error) {
	db = r.resolveDB(db)
	var models []Application
	err := db.NewSelect().
		Model(&models).
		Where("job_id = ?", jobID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	out := make([]pipelinetypes.Application, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// UpdateApplicationStage writes the derived stage, status and current round.
func (r *Impl) UpdateApplicationStage(ctx context.Context, db bun.IDB, applicationID uuid.UUID, update StageUpdate) (pipelinetypes.Application, error) {
	db = r.resolveDB(db)
	roundID := update.CurrentRoundID
	model := &Application{
		ID:             applicationID,
		Stage:          update.Stage,
		Status:         update.Status,
		CurrentRoundID: &roundID,
		UpdatedAt:      update.At,
	}
	res, err := db.NewUpdate().
		Model(model).
		Column("stage", "status", "current_round_id", "updated_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return pipelinetypes.Application{}, fmt.Errorf("failed to update application stage: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return pipelinetypes.Application{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return pipelinetypes.Application{}, ErrApplicationNotFound
	}
	return model.toDomain(), nil
}

// CountByStage counts a job's applications per stage.
func (r *Impl) CountByStage(ctx context.Context, db bun.IDB, jobID uuid.UUID) (map[roundtypes.Stage]int, error) {
	db = r.resolveDB(db)
	var rows []struct {
		Stage roundtypes.Stage `bun:"stage"`
		Count int              `bun:"count"`
	}
	err := db.NewSelect().
		Model((*Application)(nil)).
		Column("stage").
		ColumnExpr("COUNT(*) AS count").
		Where("job_id = ?", jobID).
		Group("stage").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by stage: %w", err)
	}
	out := make(map[roundtypes.Stage]int, len(rows))
	for _, row := range rows {
		out[row.Stage] = row.Count
	}
	return out, nil
}

// UpsertProgress inserts the (application, round) row or refreshes it on re-entry.
func (r *Impl) UpsertProgress(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID, actorID *uuid.UUID, at time.Time) (pipelinetypes.RoundProgress, error) {
	db = r.resolveDB(db)
	model := &RoundProgress{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		RoundID:       roundID,
		EnteredBy:     actorID,
		EnteredAt:     at,
		UpdatedAt:     at,
	}
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (application_id, round_id) DO UPDATE").
		Set("entered_by = EXCLUDED.entered_by").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return pipelinetypes.RoundProgress{}, fmt.Errorf("failed to upsert round progress: %w", err)
	}
	return model.toDomain(), nil
}

// ListProgress returns an application's progress rows in entry order.
func (r *Impl) ListProgress(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]pipelinetypes.RoundProgress, error) {
	db = r.resolveDB(db)
	var models []RoundProgress
	err := db.NewSelect().
		Model(&models).
		Where("application_id = ?", applicationID).
		Order("entered_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list round progress: %w", err)
	}
	return progressToDomain(models), nil
}

// ListProgressByJob returns the progress rows of every application of a job.
func (r *Impl) ListProgressByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]pipelinetypes.RoundProgress, error) {
	db = r.resolveDB(db)
	var models []RoundProgress
	err := db.NewSelect().
		Model(&models).
		Join("JOIN applications AS a ON a.id = arp.application_id").
		Where("a.job_id = ?", jobID).
		Order("arp.entered_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job progress: %w", err)
	}
	return progressToDomain(models), nil
}

func progressToDomain(models []RoundProgress) []pipelinetypes.RoundProgress {
	out := make([]pipelinetypes.RoundProgress, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out
}

// LinkInterview points the (application, round) progress row at an interview,
// creating the row if the application never formally entered the round.
func (r *Impl) LinkInterview(ctx context.Context, db bun.IDB, applicationID, roundID, interviewID uuid.UUID, at time.Time) error {
	db = r.resolveDB(db)
	model := &RoundProgress{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		RoundID:       roundID,
		InterviewID:   &interviewID,
		EnteredAt:     at,
		UpdatedAt:     at,
	}
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (application_id, round_id) DO UPDATE").
		Set("interview_id = EXCLUDED.interview_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to link interview: %w", err)
	}
	return nil
}

// FindOpenInterview returns the open interview for the pair, or nil.
func (r *Impl) FindOpenInterview(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID) (*pipelinetypes.Interview, error) {
	db = r.resolveDB(db)
	model := new(Interview)
	err := db.NewSelect().
		Model(model).
		Where("application_id = ?", applicationID).
		Where("round_id = ?", roundID).
		Where("status IN (?)", bun.In(pipelinetypes.OpenInterviewStatuses)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open interview: %w", err)
	}
	interview := model.toDomain()
	return &interview, nil
}

// CreateInterview inserts an interview.
func (r *Impl) CreateInterview(ctx context.Context, db bun.IDB, interview pipelinetypes.Interview) (pipelinetypes.Interview, error) {
	db = r.resolveDB(db)
	if interview.ID == uuid.Nil {
		interview.ID = uuid.New()
	}
	model := interviewFromDomain(interview)
	if _, err := db.NewInsert().Model(model).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return pipelinetypes.Interview{}, ErrOpenInterviewExists
		}
		return pipelinetypes.Interview{}, fmt.Errorf("failed to create interview: %w", err)
	}
	return model.toDomain(), nil
}

// RecordAutomationRun appends an audit row.
func (r *Impl) RecordAutomationRun(ctx context.Context, db bun.IDB, run pipelinetypes.AutomationRun) error {
	db = r.resolveDB(db)
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	model := &AutomationRun{
		ID:            run.ID,
		ApplicationID: run.ApplicationID,
		RoundID:       run.RoundID,
		Dispatcher:    run.Dispatcher,
		Outcome:       run.Outcome,
		Detail:        run.Detail,
		CreatedAt:     run.CreatedAt,
	}
	if _, err := db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record automation run: %w", err)
	}
	return nil
}

// ListAutomationRuns returns an application's audit rows, newest first.
func (r *Impl) ListAutomationRuns(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]pipelinetypes.AutomationRun, error) {
	db = r.resolveDB(db)
	var models []AutomationRun
	err := db.NewSelect().
		Model(&models).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list automation runs: %w", err)
	}
	out := make([]pipelinetypes.AutomationRun, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}
