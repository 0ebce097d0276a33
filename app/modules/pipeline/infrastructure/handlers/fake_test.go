package pipelinehandlers

import (
	"context"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	pipelineservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/application"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinequeue "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/queue"
	"github.com/google/uuid"
)

// FakeService is a programmable pipelineservice.Service.
type FakeService struct {
	CreateApplicationFunc func(ctx context.Context, input pipelinetypes.NewApplicationInput, actorID uuid.UUID) (pipelinetypes.Application, error)
	AdvanceFunc           func(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error)
	RejectFunc            func(ctx context.Context, applicationID, actorID uuid.UUID) (pipelinetypes.Application, error)
	AssignAssessmentFunc  func(ctx context.Context, applicationID, roundID, actorID uuid.UUID) (assessmenttypes.InviteResult, error)
	ScheduleInterviewFunc func(ctx context.Context, applicationID, roundID uuid.UUID) (pipelinetypes.Interview, error)
	ExportBoardFunc       func(ctx context.Context, jobID uuid.UUID) ([]byte, error)
}

func (f *FakeService) CreateApplication(ctx context.Context, input pipelinetypes.NewApplicationInput, actorID uuid.UUID) (pipelinetypes.Application, error) {
	if f.CreateApplicationFunc != nil {
		return f.CreateApplicationFunc(ctx, input, actorID)
	}
	return pipelinetypes.Application{ID: uuid.New(), JobID: input.JobID}, nil
}

func (f *FakeService) GetApplication(ctx context.Context, applicationID uuid.UUID) (pipelinetypes.Application, error) {
	return pipelinetypes.Application{ID: applicationID}, nil
}

func (f *FakeService) ListApplications(ctx context.Context, jobID uuid.UUID) ([]pipelinetypes.Application, error) {
	return []pipelinetypes.Application{}, nil
}

func (f *FakeService) Advance(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error) {
	if f.AdvanceFunc != nil {
		return f.AdvanceFunc(ctx, req)
	}
	return pipelinetypes.Application{ID: req.ApplicationID}, nil
}

func (f *FakeService) Reject(ctx context.Context, applicationID, actorID uuid.UUID) (pipelinetypes.Application, error) {
	if f.RejectFunc != nil {
		return f.RejectFunc(ctx, applicationID, actorID)
	}
	return pipelinetypes.Application{ID: applicationID, Status: pipelinetypes.StatusRejected}, nil
}

func (f *FakeService) AssignAssessment(ctx context.Context, applicationID, roundID, actorID uuid.UUID) (assessmenttypes.InviteResult, error) {
	if f.AssignAssessmentFunc != nil {
		return f.AssignAssessmentFunc(ctx, applicationID, roundID, actorID)
	}
	return assessmenttypes.InviteResult{AssessmentID: uuid.New(), Created: true}, nil
}

func (f *FakeService) ScheduleInterview(ctx context.Context, applicationID, roundID uuid.UUID) (pipelinetypes.Interview, error) {
	if f.ScheduleInterviewFunc != nil {
		return f.ScheduleInterviewFunc(ctx, applicationID, roundID)
	}
	return pipelinetypes.Interview{ID: uuid.New(), ApplicationID: applicationID, RoundID: roundID}, nil
}

func (f *FakeService) ListProgress(ctx context.Context, applicationID uuid.UUID) ([]pipelinetypes.RoundProgress, error) {
	return []pipelinetypes.RoundProgress{}, nil
}

func (f *FakeService) ListAutomationRuns(ctx context.Context, applicationID uuid.UUID) ([]pipelinetypes.AutomationRun, error) {
	return []pipelinetypes.AutomationRun{}, nil
}

func (f *FakeService) ExportBoard(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	if f.ExportBoardFunc != nil {
		return f.ExportBoardFunc(ctx, jobID)
	}
	return []byte("PK"), nil
}

func (f *FakeService) FunnelChart(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	return []byte("\x89PNG"), nil
}

var _ pipelineservice.Service = (*FakeService)(nil)

type fakeJobs struct {
	jobs []pipelinequeue.JobInfo
}

func (f *fakeJobs) ListJobs(ctx context.Context, applicationID uuid.UUID) ([]pipelinequeue.JobInfo, error) {
	return f.jobs, nil
}
