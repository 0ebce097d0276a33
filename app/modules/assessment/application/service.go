package assessmentservice

import (
	"context"
	"log/slog"
	"sync"

	assessmentdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/invitetoken"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/clock"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/observability"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/operation"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RoundReader loads the round an assessment belongs to.
type RoundReader interface {
	GetRound(ctx context.Context, roundID uuid.UUID) (roundtypes.JobRound, error)
}

// Transitioner moves the owning application after a verdict.
type Transitioner interface {
	Advance(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error)
	Reject(ctx context.Context, applicationID, actorID uuid.UUID) (pipelinetypes.Application, error)
}

// Config holds assessment settings that do not live on a round.
type Config struct {
	// DispatchOnAutoAdvance re-runs the destination round's automation when
	// a passing verdict advances the application.
	DispatchOnAutoAdvance bool
	// DefaultPassThreshold applies when neither the round nor the assessment carries one.
	DefaultPassThreshold float64
}

// AssessmentService implements Service.
type AssessmentService struct {
	repo    assessmentdb.Repository
	tokens  invitetoken.Provider
	rounds  RoundReader
	events  message.Publisher
	cfg     Config
	clock   clock.Clock
	logger  *slog.Logger
	metrics observability.Metrics
	tracer  trace.Tracer
	db      *bun.DB

	mu           sync.RWMutex
	transitioner Transitioner
}

// NewAssessmentService creates an AssessmentService. The transitioner is set
// later with SetTransitioner because the pipeline service depends on this one.
func NewAssessmentService(
	repo assessmentdb.Repository,
	tokens invitetoken.Provider,
	rounds RoundReader,
	events message.Publisher,
	cfg Config,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AssessmentService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	if cfg.DefaultPassThreshold <= 0 {
		cfg.DefaultPassThreshold = roundtypes.DefaultPassThreshold
	}
	return &AssessmentService{
		repo:    repo,
		tokens:  tokens,
		rounds:  rounds,
		events:  events,
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// SetTransitioner wires the pipeline used for finalization follow-through.
func (s *AssessmentService) SetTransitioner(t Transitioner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitioner = t
}

func (s *AssessmentService) getTransitioner() Transitioner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transitioner
}

func (s *AssessmentService) telemetry() operation.Telemetry {
	return operation.Telemetry{Service: "AssessmentService", Logger: s.logger, Metrics: s.metrics, Tracer: s.tracer}
}

func run[T any](
	s *AssessmentService,
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

// call runs fn without a transaction so writes made before a failure stick.
func call[T any](
	s *AssessmentService,
	ctx context.Context,
	operationName, identifier string,
	fn func(ctx context.Context) (results.OperationResult[T, error], error),
) (T, error) {
	result, err := operation.Run(ctx, s.telemetry(), operationName, identifier, fn)
	return operation.Unwrap(result, err)
}

func (s *AssessmentService) inTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

func failure[T any](err error) (results.OperationResult[T, error], error) {
	return results.FailureResult[T, error](err), nil
}

// domainFailure turns a domain error into a failure result and passes
// anything else through as an error.
func domainFailure[T any](err error) (results.OperationResult[T, error], error) {
	if apperrors.IsDomain(err) {
		return failure[T](err)
	}
	return results.OperationResult[T, error]{}, err
}

func success[T any](v T) (results.OperationResult[T, error], error) {
	return results.SuccessResult[T, error](v), nil
}
