package assessmentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when an assessment is not found.
	ErrNotFound = fmt.Errorf("assessment %w", apperrors.ErrNotFound)
	// ErrOpenAssessmentExists is returned when the pair already has a non-expired assessment.
	ErrOpenAssessmentExists = fmt.Errorf("open assessment already exists: %w", apperrors.ErrInvalidState)
	// ErrStatusConflict is returned when the assessment is not in an expected status.
	ErrStatusConflict = fmt.Errorf("assessment status changed: %w", apperrors.ErrInvalidState)
	// ErrAlreadyFinalized is returned when results were already written.
	ErrAlreadyFinalized = fmt.Errorf("assessment already finalized: %w", apperrors.ErrInvalidState)
	// ErrExpired is returned when finalizing an expired assessment.
	ErrExpired = fmt.Errorf("assessment expired: %w", apperrors.ErrInvalidState)
)

const uniqueViolation = "23505"

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new assessment repository.
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

// Create inserts the assessment and its questions.
func (r *Impl) Create(ctx context.Context, db bun.IDB, assessment *Assessment, questions []*Question) (assessmenttypes.Assessment, error) {
	db = r.resolveDB(db)
	if assessment.ID == uuid.Nil {
		assessment.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(assessment).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return assessmenttypes.Assessment{}, ErrOpenAssessmentExists
		}
		return assessmenttypes.Assessment{}, fmt.Errorf("failed to create assessment: %w", err)
	}

	for i, q := range questions {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.AssessmentID = assessment.ID
		q.Position = i
	}
	if len(questions) > 0 {
		if _, err := db.NewInsert().Model(&questions).Exec(ctx); err != nil {
			return assessmenttypes.Assessment{}, fmt.Errorf("failed to create assessment questions: %w", err)
		}
	}
	assessment.Questions = questions
	return assessment.toDomain(), nil
}

// FindOpen returns the pair's non-expired assessment, or nil.
func (r *Impl) FindOpen(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID) (*assessmenttypes.Assessment, error) {
	db = r.resolveDB(db)
	model := new(Assessment)
	err := db.NewSelect().
		Model(model).
		Where("application_id = ?", applicationID).
		Where("round_id = ?", roundID).
		Where("status <> ?", assessmenttypes.StatusExpired).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open assessment: %w", err)
	}
	a := model.toDomain()
	return &a, nil
}

func (r *Impl) selectFull(db bun.IDB, model *Assessment) *bun.SelectQuery {
	return db.NewSelect().
		Model(model).
		Relation("Questions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("aq.position ASC")
		}).
		Relation("Responses").
		Relation("Responses.Grades").
		Relation("Votes")
}

// Get loads an assessment by id.
func (r *Impl) Get(ctx context.Context, db bun.IDB, id uuid.UUID) (assessmenttypes.Assessment, error) {
	db = r.resolveDB(db)
	model := new(Assessment)
	if err := r.selectFull(db, model).Where("a.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assessmenttypes.Assessment{}, ErrNotFound
		}
		return assessmenttypes.Assessment{}, fmt.Errorf("failed to get assessment: %w", err)
	}
	return model.toDomain(), nil
}

// GetByToken loads an assessment by its invitation token.
func (r *Impl) GetByToken(ctx context.Context, db bun.IDB, token string) (assessmenttypes.Assessment, error) {
	db = r.resolveDB(db)
	model := new(Assessment)
	if err := r.selectFull(db, model).Where("a.token = ?", token).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assessmenttypes.Assessment{}, ErrNotFound
		}
		return assessmenttypes.Assessment{}, fmt.Errorf("failed to get assessment by token: %w", err)
	}
	return model.toDomain(), nil
}

// SetStatus updates status with a compare-and-set on the current status.
func (r *Impl) SetStatus(ctx context.Context, db bun.IDB, id uuid.UUID, from []assessmenttypes.Status, to assessmenttypes.Status, at time.Time) error {
	db = r.resolveDB(db)
	q := db.NewUpdate().
		Model((*Assessment)(nil)).
		Set("status = ?", to).
		Where("id = ?", id).
		Where("status IN (?)", bun.In(from))
	switch to {
	case assessmenttypes.StatusInProgress:
		q = q.Set("started_at = ?", at)
	case assessmenttypes.StatusCompleted:
		q = q.Set("completed_at = ?", at)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update assessment status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		if exists, err := r.exists(ctx, db, id); err != nil {
			return err
		} else if !exists {
			return ErrNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// Complete finalizes the assessment. The results IS NULL guard makes the
// write happen at most once; expired assessments are never completed.
func (r *Impl) Complete(ctx context.Context, db bun.IDB, id uuid.UUID, results assessmenttypes.Results, at time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Assessment)(nil)).
		Set("results = ?", &results).
		Set("status = ?", assessmenttypes.StatusCompleted).
		Set("completed_at = COALESCE(completed_at, ?)", at).
		Where("id = ?", id).
		Where("results IS NULL").
		Where("status <> ?", assessmenttypes.StatusExpired).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete assessment: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var status assessmenttypes.Status
		err := db.NewSelect().Model((*Assessment)(nil)).Column("status").Where("id = ?", id).Scan(ctx, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check assessment: %w", err)
		}
		if status == assessmenttypes.StatusExpired {
			return ErrExpired
		}
		return ErrAlreadyFinalized
	}
	return nil
}

func (r *Impl) exists(ctx context.Context, db bun.IDB, id uuid.UUID) (bool, error) {
	exists, err := db.NewSelect().Model((*Assessment)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check assessment: %w", err)
	}
	return exists, nil
}

// UpsertResponse stores the latest answer to a question.
func (r *Impl) UpsertResponse(ctx context.Context, db bun.IDB, assessmentID, questionID uuid.UUID, answer string, at time.Time) (assessmenttypes.Response, error) {
	db = r.resolveDB(db)
	model := &Response{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		QuestionID:   questionID,
		Answer:       answer,
		UpdatedAt:    at,
	}
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (assessment_id, question_id) DO UPDATE").
		Set("answer = EXCLUDED.answer").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return assessmenttypes.Response{}, fmt.Errorf("failed to upsert response: %w", err)
	}
	return model.toDomain(), nil
}

// UpsertGrade stores the grade for a response, replacing any earlier grade
// and its reviewer.
func (r *Impl) UpsertGrade(ctx context.Context, db bun.IDB, grade assessmenttypes.Grade) (assessmenttypes.Grade, error) {
	db = r.resolveDB(db)
	model := &Grade{
		ID:         uuid.New(),
		ResponseID: grade.ResponseID,
		ReviewerID: grade.ReviewerID,
		Score:      grade.Score,
		Feedback:   grade.Feedback,
	}
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (response_id) DO UPDATE").
		Set("reviewer_id = EXCLUDED.reviewer_id").
		Set("score = EXCLUDED.score").
		Set("feedback = EXCLUDED.feedback").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return assessmenttypes.Grade{}, fmt.Errorf("failed to upsert grade: %w", err)
	}
	return model.toDomain(), nil
}

// UpsertVote stores a reviewer's latest vote.
func (r *Impl) UpsertVote(ctx context.Context, db bun.IDB, assessmentID uuid.UUID, vote assessmenttypes.Vote) (assessmenttypes.Vote, error) {
	db = r.resolveDB(db)
	model := &Vote{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		ReviewerID:   vote.ReviewerID,
		Decision:     vote.Decision,
		Comment:      vote.Comment,
	}
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (assessment_id, reviewer_id) DO UPDATE").
		Set("decision = EXCLUDED.decision").
		Set("comment = EXCLUDED.comment").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return assessmenttypes.Vote{}, fmt.Errorf("failed to upsert vote: %w", err)
	}
	return model.toDomain(), nil
}
