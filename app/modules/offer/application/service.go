package offerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	offerdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/clock"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/observability"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/operation"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// ErrOfferExpired is returned when responding after the offer's deadline.
var ErrOfferExpired = fmt.Errorf("offer has expired: %w", apperrors.ErrInvalidState)

// Notifier delivers the offer letter.
type Notifier interface {
	SendOfferEmail(ctx context.Context, email notificationtypes.OfferEmail) error
}

// OfferService implements Service.
type OfferService struct {
	repo     offerdb.Repository
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewOfferService creates a new OfferService.
func NewOfferService(
	repo offerdb.Repository,
	notifier Notifier,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *OfferService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &OfferService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
	}
}

func (s *OfferService) telemetry() operation.Telemetry {
	return operation.Telemetry{Service: "OfferService", Logger: s.logger, Metrics: s.metrics, Tracer: s.tracer}
}

func run[T any](
	s *OfferService,
	ctx context.Context,
	operationName, identifier string,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[T, error], error),
) (T, error) {
	result, err := operation.Run(ctx, s.telemetry(), operationName, identifier,
		func(ctx context.Context) (results.OperationResult[T, error], error) {
			return operation.RunInTx(ctx, s.db, fn)
		})
	return operation.Unwrap(result, err)
}

type offerResult = results.OperationResult[offertypes.Offer, error]

func validateParams(p offertypes.CreateOfferParams) []string {
	var errs []string
	if p.ApplicationID == uuid.Nil {
		errs = append(errs, "application id is required")
	}
	if strings.TrimSpace(p.CandidateEmail) == "" {
		errs = append(errs, "candidate email is required")
	}
	if p.Salary < 0 {
		errs = append(errs, "salary cannot be negative")
	}
	if p.VacationDays < 0 {
		errs = append(errs, "vacation days cannot be negative")
	}
	if p.StartDate.IsZero() {
		errs = append(errs, "start date is required")
	}
	if p.ExpiresAt.IsZero() {
		errs = append(errs, "expiry is required")
	}
	return errs
}

// CreateOffer stores a DRAFT offer.
func (s *OfferService) CreateOffer(ctx context.Context, params offertypes.CreateOfferParams, actorID uuid.UUID) (offertypes.Offer, error) {
	return run(s, ctx, "CreateOffer", params.ApplicationID.String(), func(ctx context.Context, db bun.IDB) (offerResult, error) {
		if errs := validateParams(params); len(errs) > 0 {
			return results.FailureResult[offertypes.Offer, error](
				fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, strings.Join(errs, "; "))), nil
		}

		model := &offerdb.Offer{
			ID:              uuid.New(),
			ApplicationID:   params.ApplicationID,
			CandidateName:   params.CandidateName,
			CandidateEmail:  params.CandidateEmail,
			Status:          offertypes.StatusDraft,
			Salary:          params.Salary,
			Currency:        defaultString(params.Currency, "USD"),
			SalaryPeriod:    defaultString(params.SalaryPeriod, "YEARLY"),
			StartDate:       params.StartDate,
			ExpiresAt:       params.ExpiresAt,
			Location:        params.Location,
			WorkArrangement: params.WorkArrangement,
			Benefits:        params.Benefits,
			VacationDays:    params.VacationDays,
			TemplateID:      params.TemplateID,
			CreatedAt:       s.clock.NowUTC(),
		}
		if actorID != uuid.Nil {
			model.CreatedBy = &actorID
		}

		offer, err := s.repo.Create(ctx, db, model)
		if err != nil {
			return offerResult{}, err
		}
		return results.SuccessResult[offertypes.Offer, error](offer), nil
	})
}

// SendOffer moves a DRAFT offer to SENT and emails it. An email failure is
// logged and does not undo the transition.
func (s *OfferService) SendOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error) {
	offer, err := run(s, ctx, "SendOffer", offerID.String(), func(ctx context.Context, db bun.IDB) (offerResult, error) {
		return s.transition(ctx, db, offerID, offertypes.StatusDraft, offertypes.StatusSent)
	})
	if err != nil {
		return offer, err
	}

	if s.notifier != nil {
		email := notificationtypes.OfferEmail{
			To:            offer.CandidateEmail,
			CandidateName: offer.CandidateName,
			OfferID:       offer.ID,
			ApplicationID: offer.ApplicationID,
			Salary:        offer.Salary,
			Currency:      offer.Currency,
			StartDate:     offer.StartDate,
			ExpiresAt:     offer.ExpiresAt,
			TemplateID:    offer.TemplateID,
		}
		if err := s.notifier.SendOfferEmail(ctx, email); err != nil {
			s.logger.ErrorContext(ctx, "Failed to send offer email",
				slog.String("offer_id", offer.ID.String()),
				slog.String("application_id", offer.ApplicationID.String()),
				slog.Any("error", err),
			)
		}
	}
	return offer, nil
}

// RespondToOffer records the candidate's answer to a SENT offer.
func (s *OfferService) RespondToOffer(ctx context.Context, offerID uuid.UUID, response offertypes.Response) (offertypes.Offer, error) {
	return run(s, ctx, "RespondToOffer", offerID.String(), func(ctx context.Context, db bun.IDB) (offerResult, error) {
		var to offertypes.Status
		switch response {
		case offertypes.ResponseAccept:
			to = offertypes.StatusAccepted
		case offertypes.ResponseDecline:
			to = offertypes.StatusDeclined
		default:
			return results.FailureResult[offertypes.Offer, error](
				fmt.Errorf("%w: unknown offer response %q", apperrors.ErrInvalidInput, response)), nil
		}

		current, err := s.repo.Get(ctx, db, offerID)
		if err != nil {
			if errors.Is(err, offerdb.ErrNotFound) {
				return results.FailureResult[offertypes.Offer, error](err), nil
			}
			return offerResult{}, err
		}
		if to == offertypes.StatusAccepted && !s.clock.NowUTC().Before(current.ExpiresAt) {
			return results.FailureResult[offertypes.Offer, error](ErrOfferExpired), nil
		}

		return s.transition(ctx, db, offerID, offertypes.StatusSent, to)
	})
}

func (s *OfferService) transition(ctx context.Context, db bun.IDB, offerID uuid.UUID, from, to offertypes.Status) (offerResult, error) {
	offer, err := s.repo.Transition(ctx, db, offerID, from, to, s.clock.NowUTC())
	if err != nil {
		if errors.Is(err, offerdb.ErrNotFound) || errors.Is(err, offerdb.ErrStatusConflict) {
			return results.FailureResult[offertypes.Offer, error](err), nil
		}
		return offerResult{}, err
	}
	return results.SuccessResult[offertypes.Offer, error](offer), nil
}

// GetOffer retrieves an offer.
func (s *OfferService) GetOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error) {
	return run(s, ctx, "GetOffer", offerID.String(), func(ctx context.Context, db bun.IDB) (offerResult, error) {
		offer, err := s.repo.Get(ctx, db, offerID)
		if err != nil {
			if errors.Is(err, offerdb.ErrNotFound) {
				return results.FailureResult[offertypes.Offer, error](err), nil
			}
			return offerResult{}, err
		}
		return results.SuccessResult[offertypes.Offer, error](offer), nil
	})
}

// ListOffers returns an application's offers.
func (s *OfferService) ListOffers(ctx context.Context, applicationID uuid.UUID) ([]offertypes.Offer, error) {
	return run(s, ctx, "ListOffers", applicationID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]offertypes.Offer, error], error) {
		offers, err := s.repo.ListByApplication(ctx, db, applicationID)
		if err != nil {
			return results.OperationResult[[]offertypes.Offer, error]{}, err
		}
		return results.SuccessResult[[]offertypes.Offer, error](offers), nil
	})
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
