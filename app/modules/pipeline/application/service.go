package pipelineservice

import (
	"context"
	"log/slog"
	"strings"
	"time"

	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/clock"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/observability"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/operation"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the pipeline settings that do not live on a round.
type Config struct {
	CandidatePortalURL string
	MeetingBaseURL     string
	InterviewSlotRule  string
	InterviewLocation  *time.Location
}

// PipelineService implements Service and pipelinetypes.AutomationExecutor.
type PipelineService struct {
	repo          pipelinedb.Repository
	rounds        RoundResolver
	assessments   AssessmentInviter
	notifications NotificationSender
	calendar      CalendarClient
	offers        OfferIssuer
	runner        AutomationRunner
	events        eventPublisher
	cfg           Config
	slots         *SlotPicker
	clock         clock.Clock
	logger        *slog.Logger
	metrics       observability.Metrics
	tracer        trace.Tracer
	db            *bun.DB
}

// NewPipelineService creates a PipelineService and binds it to the runner.
func NewPipelineService(
	repo pipelinedb.Repository,
	deps Collaborators,
	cfg Config,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *PipelineService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	if cfg.InterviewLocation == nil {
		cfg.InterviewLocation = time.UTC
	}
	cfg.CandidatePortalURL = strings.TrimRight(cfg.CandidatePortalURL, "/")
	cfg.MeetingBaseURL = strings.TrimRight(cfg.MeetingBaseURL, "/")

	runner := deps.Runner
	if runner == nil {
		runner = NewInlineRunner()
	}

	s := &PipelineService{
		repo:          repo,
		rounds:        deps.Rounds,
		assessments:   deps.Assessments,
		notifications: deps.Notifications,
		calendar:      deps.Calendar,
		offers:        deps.Offers,
		runner:        runner,
		events:        eventPublisher{publisher: deps.Events},
		cfg:           cfg,
		slots:         NewSlotPicker(cfg.InterviewSlotRule, cfg.InterviewLocation, logger),
		clock:         clk,
		logger:        logger,
		metrics:       metrics,
		tracer:        tracer,
		db:            db,
	}
	runner.Bind(s)
	return s
}

func (s *PipelineService) telemetry() operation.Telemetry {
	return operation.Telemetry{Service: "PipelineService", Logger: s.logger, Metrics: s.metrics, Tracer: s.tracer}
}

// run executes fn in a transaction wrapped with telemetry and unwraps the result.
func run[T any](
	s *PipelineService,
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

// call is run without a surrounding transaction, for reads and for
// operations that talk to other services between writes.
func call[T any](
	s *PipelineService,
	ctx context.Context,
	operationName, identifier string,
	fn func(ctx context.Context) (results.OperationResult[T, error], error),
) (T, error) {
	result, err := operation.Run(ctx, s.telemetry(), operationName, identifier, fn)
	return operation.Unwrap(result, err)
}

// inTx runs fn in its own transaction, or against the repository's default
// connection when no database is configured.
func (s *PipelineService) inTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}
