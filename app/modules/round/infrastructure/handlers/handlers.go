package roundhandlers

import (
	"log/slog"
	"net/http"

	roundservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/application"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RoundHandlers serves job and round configuration over HTTP.
type RoundHandlers struct {
	service roundservice.Service
	logger  *slog.Logger
}

// NewRoundHandlers creates RoundHandlers.
func NewRoundHandlers(service roundservice.Service, logger *slog.Logger) *RoundHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoundHandlers{service: service, logger: logger}
}

// Routes mounts the handlers on r.
func (h *RoundHandlers) Routes(r chi.Router) {
	r.Post("/jobs", h.HandleCreateJob)
	r.Get("/jobs/{jobID}", h.HandleGetJob)
	r.Get("/jobs/{jobID}/rounds", h.HandleListRounds)
	r.Post("/jobs/{jobID}/rounds", h.HandleCreateRound)
	r.Get("/rounds/{roundRef}", h.HandleGetRound)
	r.Patch("/rounds/{roundID}", h.HandleUpdateRound)
	r.Delete("/rounds/{roundID}", h.HandleDeleteRound)
}

type createJobRequest struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

func (h *RoundHandlers) HandleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	job, err := h.service.CreateJob(r.Context(), req.Title, req.Location)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, job)
}

func (h *RoundHandlers) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := httpapi.UUIDParam(r, "jobID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, job)
}

func (h *RoundHandlers) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	jobID, err := httpapi.UUIDParam(r, "jobID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	rounds, err := h.service.ListRounds(r.Context(), jobID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, rounds)
}

type createRoundRequest struct {
	Name             string                       `json:"name"`
	Kind             roundtypes.RoundKind         `json:"kind"`
	Order            *int                         `json:"order,omitempty"`
	AssignedRoleID   *uuid.UUID                   `json:"assigned_role_id,omitempty"`
	SyncPermissions  bool                         `json:"sync_permissions"`
	EmailConfig      roundtypes.EmailConfig       `json:"email_config"`
	AssessmentConfig *roundtypes.AssessmentConfig `json:"assessment_config,omitempty"`
	InterviewConfig  *roundtypes.InterviewConfig  `json:"interview_config,omitempty"`
}

func (h *RoundHandlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	jobID, err := httpapi.UUIDParam(r, "jobID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req createRoundRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	round, err := h.service.CreateRound(r.Context(), roundtypes.CreateRoundInput{
		JobID:            jobID,
		Name:             req.Name,
		Kind:             req.Kind,
		Order:            req.Order,
		AssignedRoleID:   req.AssignedRoleID,
		SyncPermissions:  req.SyncPermissions,
		EmailConfig:      req.EmailConfig,
		AssessmentConfig: req.AssessmentConfig,
		InterviewConfig:  req.InterviewConfig,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, round)
}

// HandleGetRound accepts a round id or a fixed-<KEY>-<jobId> alias.
func (h *RoundHandlers) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	ref, err := roundtypes.ParseRoundRef(chi.URLParam(r, "roundRef"))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, apperrors.ErrNotFound)
		return
	}
	round, err := h.service.ResolveRound(r.Context(), ref)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, round)
}

type updateRoundRequest struct {
	Name             *string                      `json:"name,omitempty"`
	Order            *int                         `json:"order,omitempty"`
	AssignedRoleID   *uuid.UUID                   `json:"assigned_role_id,omitempty"`
	SyncPermissions  *bool                        `json:"sync_permissions,omitempty"`
	EmailConfig      *roundtypes.EmailConfig      `json:"email_config,omitempty"`
	OfferConfig      *roundtypes.OfferConfig      `json:"offer_config,omitempty"`
	AssessmentConfig *roundtypes.AssessmentConfig `json:"assessment_config,omitempty"`
	InterviewConfig  *roundtypes.InterviewConfig  `json:"interview_config,omitempty"`
}

func (h *RoundHandlers) HandleUpdateRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := httpapi.UUIDParam(r, "roundID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req updateRoundRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	round, err := h.service.UpdateRound(r.Context(), roundID, roundtypes.UpdateRoundInput(req))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, round)
}

func (h *RoundHandlers) HandleDeleteRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := httpapi.UUIDParam(r, "roundID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	if err := h.service.DeleteRound(r.Context(), roundID); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
