package assessmenthandlers

import (
	"log/slog"
	"net/http"

	assessmentservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/application"
	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/httpapi"
	"github.com/go-chi/chi/v5"
)

// AssessmentHandlers serves reviewers and, through invitation tokens, candidates.
type AssessmentHandlers struct {
	service assessmentservice.Service
	logger  *slog.Logger
}

// NewAssessmentHandlers creates AssessmentHandlers.
func NewAssessmentHandlers(service assessmentservice.Service, logger *slog.Logger) *AssessmentHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentHandlers{service: service, logger: logger}
}

// Routes mounts the handlers on r.
func (h *AssessmentHandlers) Routes(r chi.Router) {
	r.Get("/assessments/{assessmentID}", h.HandleGet)
	r.Post("/assessments/{assessmentID}/responses/{responseID}/grades", h.HandleGrade)
	r.Post("/assessments/{assessmentID}/votes", h.HandleVote)
	r.Post("/assessments/{assessmentID}/finalize", h.HandleFinalize)

	r.Route("/candidate/assessments/{token}", func(r chi.Router) {
		r.Get("/", h.HandleCandidateGet)
		r.Post("/start", h.HandleStart)
		r.Put("/responses/{questionID}", h.HandleSaveResponse)
		r.Post("/submit", h.HandleSubmit)
	})
}

// candidateView hides reviewer data from the candidate.
func candidateView(a assessmenttypes.Assessment) assessmenttypes.Assessment {
	a.Results = nil
	a.Votes = nil
	responses := make([]assessmenttypes.Response, len(a.Responses))
	for i, r := range a.Responses {
		r.Grades = nil
		responses[i] = r
	}
	a.Responses = responses
	return a
}

func (h *AssessmentHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.UUIDParam(r, "assessmentID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, a)
}

type gradeRequest struct {
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback"`
}

func (h *AssessmentHandlers) HandleGrade(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.UUIDParam(r, "assessmentID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	responseID, err := httpapi.UUIDParam(r, "responseID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	reviewer, err := httpapi.ActorID(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req gradeRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	grade, err := h.service.GradeResponse(r.Context(), id, responseID, reviewer, req.Score, req.Feedback)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, grade)
}

type voteRequest struct {
	Decision assessmenttypes.VoteDecision `json:"decision"`
	Comment  string                       `json:"comment"`
}

func (h *AssessmentHandlers) HandleVote(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.UUIDParam(r, "assessmentID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	reviewer, err := httpapi.ActorID(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req voteRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	vote, err := h.service.CastVote(r.Context(), id, reviewer, req.Decision, req.Comment)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, vote)
}

func (h *AssessmentHandlers) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.UUIDParam(r, "assessmentID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	actor, err := httpapi.ActorID(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	res, err := h.service.Finalize(r.Context(), id, actor)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, res)
}

func (h *AssessmentHandlers) HandleCandidateGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, candidateView(a))
}

func (h *AssessmentHandlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Start(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, candidateView(a))
}

type saveResponseRequest struct {
	Answer string `json:"answer"`
}

func (h *AssessmentHandlers) HandleSaveResponse(w http.ResponseWriter, r *http.Request) {
	questionID, err := httpapi.UUIDParam(r, "questionID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req saveResponseRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.SaveResponse(r.Context(), chi.URLParam(r, "token"), questionID, req.Answer)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	resp.Grades = nil
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (h *AssessmentHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Submit(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, candidateView(a))
}
