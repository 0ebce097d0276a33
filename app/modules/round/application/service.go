package roundservice

import (
	"context"
	"log/slog"

	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	roundutil "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/utils"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/observability"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/operation"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RoundService implements the Service interface.
type RoundService struct {
	repo      rounddb.Repository
	validator roundutil.RoundValidator
	logger    *slog.Logger
	metrics   observability.Metrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewRoundService creates a new RoundService.
func NewRoundService(
	repo rounddb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoundService{
		repo:      repo,
		validator: roundutil.NewRoundValidator(),
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

func (s *RoundService) telemetry() operation.Telemetry {
	return operation.Telemetry{Service: "RoundService", Logger: s.logger, Metrics: s.metrics, Tracer: s.tracer}
}

// run executes fn in a transaction wrapped with telemetry and unwraps the result.
func run[T any](
	s *RoundService,
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
