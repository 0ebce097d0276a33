package pipelineservice

import (
	"context"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	"github.com/google/uuid"
)

// Service moves applications through a job's rounds.
type Service interface {
	CreateApplication(ctx context.Context, input pipelinetypes.NewApplicationInput, actorID uuid.UUID) (pipelinetypes.Application, error)
	GetApplication(ctx context.Context, applicationID uuid.UUID) (pipelinetypes.Application, error)
	ListApplications(ctx context.Context, jobID uuid.UUID) ([]pipelinetypes.Application, error)

	// Advance records entry into a round, updates the stage and hands the
	// transition to the automation runner. Automation never fails Advance.
	Advance(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error)
	// Reject advances the application into its job's REJECTED round.
	Reject(ctx context.Context, applicationID, actorID uuid.UUID) (pipelinetypes.Application, error)

	AssignAssessment(ctx context.Context, applicationID, roundID, actorID uuid.UUID) (assessmenttypes.InviteResult, error)
	ScheduleInterview(ctx context.Context, applicationID, roundID uuid.UUID) (pipelinetypes.Interview, error)

	ListProgress(ctx context.Context, applicationID uuid.UUID) ([]pipelinetypes.RoundProgress, error)
	ListAutomationRuns(ctx context.Context, applicationID uuid.UUID) ([]pipelinetypes.AutomationRun, error)

	ExportBoard(ctx context.Context, jobID uuid.UUID) ([]byte, error)
	FunnelChart(ctx context.Context, jobID uuid.UUID) ([]byte, error)
}
