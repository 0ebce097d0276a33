package pipelinedb

import (
	"context"
	"time"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StageUpdate is the derived state written on each transition.
type StageUpdate struct {
	Stage          roundtypes.Stage
	Status         pipelinetypes.ApplicationStatus
	CurrentRoundID uuid.UUID
	At             time.Time
}

// Repository persists applications and what happens to them.
type Repository interface {
	CreateApplication(ctx context.Context, db bun.IDB, app *Application) (pipelinetypes.Application, error)
	GetApplication(ctx context.Context, db bun.IDB, applicationID uuid.UUID) (pipelinetypes.Application, error)
	ListApplicationsByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]pipelinetypes.Application, error)
	UpdateApplicationStage(ctx context.Context, db bun.IDB, applicationID uuid.UUID, update StageUpdate) (pipelinetypes.Application, error)
	CountByStage(ctx context.Context, db bun.IDB, jobID uuid.UUID) (map[roundtypes.Stage]int, error)

	// UpsertProgress creates or refreshes the single row for (application, round).
	UpsertProgress(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID, actorID *uuid.UUID, at time.Time) (pipelinetypes.RoundProgress, error)
	ListProgress(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]pipelinetypes.RoundProgress, error)
	ListProgressByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]pipelinetypes.RoundProgress, error)
	LinkInterview(ctx context.Context, db bun.IDB, applicationID, roundID, interviewID uuid.UUID, at time.Time) error

	FindOpenInterview(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID) (*pipelinetypes.Interview, error)
	// CreateInterview returns ErrOpenInterviewExists when another open
	// interview won the race for the pair.
	CreateInterview(ctx context.Context, db bun.IDB, interview pipelinetypes.Interview) (pipelinetypes.Interview, error)

	RecordAutomationRun(ctx context.Context, db bun.IDB, run pipelinetypes.AutomationRun) error
	ListAutomationRuns(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]pipelinetypes.AutomationRun, error)
}
