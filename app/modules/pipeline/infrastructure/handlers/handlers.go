package pipelinehandlers

import (
	"context"
	"log/slog"
	"net/http"

	pipelineservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/application"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinequeue "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/queue"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// JobLister exposes queued automation jobs. Only the River runner provides it.
type JobLister interface {
	ListJobs(ctx context.Context, applicationID uuid.UUID) ([]pipelinequeue.JobInfo, error)
}

// PipelineHandlers serves applications and their transitions over HTTP.
type PipelineHandlers struct {
	service pipelineservice.Service
	jobs    JobLister
	logger  *slog.Logger
}

// NewPipelineHandlers creates PipelineHandlers. jobs may be nil.
func NewPipelineHandlers(service pipelineservice.Service, jobs JobLister, logger *slog.Logger) *PipelineHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineHandlers{service: service, jobs: jobs, logger: logger}
}

// Routes mounts the handlers on r.
func (h *PipelineHandlers) Routes(r chi.Router) {
	r.Post("/applications", h.HandleCreateApplication)
	r.Get("/applications/{applicationID}", h.HandleGetApplication)
	r.Post("/applications/{applicationID}/advance", h.HandleAdvance)
	r.Post("/applications/{applicationID}/reject", h.HandleReject)
	r.Get("/applications/{applicationID}/progress", h.HandleListProgress)
	r.Get("/applications/{applicationID}/automation-runs", h.HandleListAutomationRuns)
	r.Post("/applications/{applicationID}/rounds/{roundID}/assessment", h.HandleAssignAssessment)
	r.Post("/applications/{applicationID}/rounds/{roundID}/interview", h.HandleScheduleInterview)
	if h.jobs != nil {
		r.Get("/applications/{applicationID}/automation-jobs", h.HandleListAutomationJobs)
	}

	r.Get("/jobs/{jobID}/applications", h.HandleListApplications)
	r.Get("/jobs/{jobID}/board.xlsx", h.HandleExportBoard)
	r.Get("/jobs/{jobID}/funnel.png", h.HandleFunnelChart)
}

// optionalActor returns uuid.Nil when no actor header was sent.
func optionalActor(r *http.Request) (uuid.UUID, error) {
	if r.Header.Get(httpapi.ActorHeader) == "" {
		return uuid.Nil, nil
	}
	return httpapi.ActorID(r)
}

func (h *PipelineHandlers) HandleCreateApplication(w http.ResponseWriter, r *http.Request) {
	actorID, err := optionalActor(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var input pipelinetypes.NewApplicationInput
	if err := httpapi.DecodeJSON(r, &input); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	app, err := h.service.CreateApplication(r.Context(), input, actorID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, app)
}

func (h *PipelineHandlers) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	app, err := h.service.GetApplication(r.Context(), appID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, app)
}

func (h *PipelineHandlers) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	jobID, err := httpapi.UUIDParam(r, "jobID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	apps, err := h.service.ListApplications(r.Context(), jobID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, apps)
}

type advanceRequest struct {
	// Round is a round id or a fixed-<KEY>-<jobId> alias.
	Round          string `json:"round"`
	SkipAutomation bool   `json:"skip_automation"`
}

func (h *PipelineHandlers) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	appID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	actorID, err := httpapi.ActorID(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req advanceRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	ref, err := roundtypes.ParseRoundRef(req.Round)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, apperrors.ErrNotFound)
		return
	}

	app, err := h.service.Advance(r.Context(), pipelinetypes.AdvanceRequest{
		ApplicationID:  appID,
		Round:          ref,
		ActorID:        actorID,
		SkipAutomation: req.SkipAutomation,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, app)
}

func (h *PipelineHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	appID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	actorID, err := httpapi.ActorID(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	app, err := h.service.Reject(r.Context(), appID, actorID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, app)
}

func (h *PipelineHandlers) HandleListProgress(w http.ResponseWriter, r *http.Request) {
	appID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	progress, err := h.service.ListProgress(r.Context(), appID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, progress)
}

func (h *PipelineHandlers) HandleListAutomationRuns(w http.ResponseWriter, r *http.Request) {
	appID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	runs, err := h.service.ListAutomationRuns(r.Context(), appID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, runs)
}

func (h *PipelineHandlers) HandleListAutomationJobs(w http.ResponseWriter, r *http.Request) {
	appID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	jobs, err := h.jobs.ListJobs(r.Context(), appID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, jobs)
}

func (h *PipelineHandlers) pairParams(w http.ResponseWriter, r *http.Request) (appID, roundID uuid.UUID, ok bool) {
	appID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return uuid.Nil, uuid.Nil, false
	}
	roundID, err = httpapi.UUIDParam(r, "roundID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return uuid.Nil, uuid.Nil, false
	}
	return appID, roundID, true
}

func (h *PipelineHandlers) HandleAssignAssessment(w http.ResponseWriter, r *http.Request) {
	appID, roundID, ok := h.pairParams(w, r)
	if !ok {
		return
	}
	actorID, err := httpapi.ActorID(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	res, err := h.service.AssignAssessment(r.Context(), appID, roundID, actorID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	httpapi.WriteJSON(w, status, map[string]any{
		"assessment_id": res.AssessmentID,
		"expires_at":    res.ExpiresAt,
		"created":       res.Created,
	})
}

func (h *PipelineHandlers) HandleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	appID, roundID, ok := h.pairParams(w, r)
	if !ok {
		return
	}
	interview, err := h.service.ScheduleInterview(r.Context(), appID, roundID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, interview)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *PipelineHandlers) HandleExportBoard(w http.ResponseWriter, r *http.Request) {
	jobID, err := httpapi.UUIDParam(r, "jobID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	data, err := h.service.ExportBoard(r.Context(), jobID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="board-`+jobID.String()+`.xlsx"`)
	_, _ = w.Write(data)
}

func (h *PipelineHandlers) HandleFunnelChart(w http.ResponseWriter, r *http.Request) {
	jobID, err := httpapi.UUIDParam(r, "jobID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	data, err := h.service.FunnelChart(r.Context(), jobID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}
