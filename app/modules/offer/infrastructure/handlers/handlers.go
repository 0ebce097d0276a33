package offerhandlers

import (
	"log/slog"
	"net/http"
	"time"

	offerservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/application"
	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/httpapi"
	"github.com/go-chi/chi/v5"
)

// OfferHandlers serves offers over HTTP.
type OfferHandlers struct {
	service offerservice.Service
	logger  *slog.Logger
}

// NewOfferHandlers creates OfferHandlers.
func NewOfferHandlers(service offerservice.Service, logger *slog.Logger) *OfferHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &OfferHandlers{service: service, logger: logger}
}

// Routes mounts the handlers on r.
func (h *OfferHandlers) Routes(r chi.Router) {
	r.Post("/applications/{applicationID}/offers", h.HandleCreateOffer)
	r.Get("/applications/{applicationID}/offers", h.HandleListOffers)
	r.Get("/offers/{offerID}", h.HandleGetOffer)
	r.Post("/offers/{offerID}/send", h.HandleSendOffer)
	r.Post("/offers/{offerID}/respond", h.HandleRespondToOffer)
}

type createOfferRequest struct {
	CandidateName   string    `json:"candidate_name"`
	CandidateEmail  string    `json:"candidate_email"`
	Salary          float64   `json:"salary"`
	Currency        string    `json:"currency"`
	SalaryPeriod    string    `json:"salary_period"`
	StartDate       time.Time `json:"start_date"`
	ExpiresAt       time.Time `json:"expires_at"`
	Location        string    `json:"location"`
	WorkArrangement string    `json:"work_arrangement"`
	Benefits        []string  `json:"benefits"`
	VacationDays    int       `json:"vacation_days"`
	TemplateID      string    `json:"template_id"`
}

func (h *OfferHandlers) HandleCreateOffer(w http.ResponseWriter, r *http.Request) {
	applicationID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	actorID, err := httpapi.ActorID(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req createOfferRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	offer, err := h.service.CreateOffer(r.Context(), offertypes.CreateOfferParams{
		ApplicationID:   applicationID,
		CandidateName:   req.CandidateName,
		CandidateEmail:  req.CandidateEmail,
		Salary:          req.Salary,
		Currency:        req.Currency,
		SalaryPeriod:    req.SalaryPeriod,
		StartDate:       req.StartDate,
		ExpiresAt:       req.ExpiresAt,
		Location:        req.Location,
		WorkArrangement: req.WorkArrangement,
		Benefits:        req.Benefits,
		VacationDays:    req.VacationDays,
		TemplateID:      req.TemplateID,
	}, actorID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, offer)
}

func (h *OfferHandlers) HandleListOffers(w http.ResponseWriter, r *http.Request) {
	applicationID, err := httpapi.UUIDParam(r, "applicationID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	offers, err := h.service.ListOffers(r.Context(), applicationID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, offers)
}

func (h *OfferHandlers) HandleGetOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := httpapi.UUIDParam(r, "offerID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	offer, err := h.service.GetOffer(r.Context(), offerID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, offer)
}

func (h *OfferHandlers) HandleSendOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := httpapi.UUIDParam(r, "offerID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	offer, err := h.service.SendOffer(r.Context(), offerID)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, offer)
}

type respondRequest struct {
	Response offertypes.Response `json:"response"`
}

func (h *OfferHandlers) HandleRespondToOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := httpapi.UUIDParam(r, "offerID")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	var req respondRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	offer, err := h.service.RespondToOffer(r.Context(), offerID, req.Response)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, offer)
}
