package pipelinequeue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
)

const (
	queueName   = "pipeline"
	serviceName = "river"
	maxAttempts = 5
)

// Runner is the durable automation runner: every committed transition
// becomes a River job, so a crash between commit and dispatch loses nothing.
type Runner struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	db      *bun.DB
	logger  *slog.Logger
	metrics observability.Metrics

	mu       sync.RWMutex
	executor pipelinetypes.AutomationExecutor
}

// NewRunner connects to Postgres and registers the automation worker.
func NewRunner(ctx context.Context, bunDB *bun.DB, dsn string, logger *slog.Logger, metrics observability.Metrics) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	logger = logger.With(slog.String("component", "river_queue"))

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_runner", serviceName)

	// River requires pgx, not database/sql.
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_runner", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_runner", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_runner", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Runner{pool: pool, db: bunDB, logger: logger, metrics: metrics}

	workers := river.NewWorkers()
	river.AddWorker(workers, &AutomationWorker{runner: r, logger: logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			queueName: {MaxWorkers: 25},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_runner", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}
	r.client = client

	metrics.RecordOperationSuccess(ctx, "initialize_runner", serviceName)
	metrics.RecordOperationDuration(ctx, "initialize_runner", serviceName, time.Since(start))
	logger.Info("Automation queue initialized")
	return r, nil
}

// Bind sets the executor jobs are handed to.
func (r *Runner) Bind(executor pipelinetypes.AutomationExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executor = executor
}

func (r *Runner) boundExecutor() pipelinetypes.AutomationExecutor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executor
}

// Submit enqueues the task. Identical tasks are deduplicated by River.
func (r *Runner) Submit(ctx context.Context, task pipelinetypes.AutomationTask) error {
	r.metrics.RecordOperationAttempt(ctx, "submit_automation", serviceName)

	res, err := r.client.Insert(ctx, jobFromTask(task), &river.InsertOpts{
		Queue:       queueName,
		MaxAttempts: maxAttempts,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	})
	if err != nil {
		r.metrics.RecordOperationFailure(ctx, "submit_automation", serviceName)
		return fmt.Errorf("failed to enqueue automation: %w", err)
	}

	r.metrics.RecordOperationSuccess(ctx, "submit_automation", serviceName)
	r.logger.DebugContext(ctx, "Automation enqueued",
		slog.String("application_id", task.ApplicationID.String()),
		slog.String("round_id", task.RoundID.String()),
		slog.Int64("job_id", res.Job.ID),
	)
	return nil
}

// Start starts working the queue.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	r.logger.Info("Automation queue started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (r *Runner) Stop(ctx context.Context) error {
	defer r.pool.Close()
	if err := r.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	r.logger.Info("Automation queue stopped")
	return nil
}

// HealthCheck verifies the queue's database is reachable.
func (r *Runner) HealthCheck(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue health check failed: %w", err)
	}
	return nil
}

// ListJobs returns the automation jobs queued for an application, for debugging.
func (r *Runner) ListJobs(ctx context.Context, applicationID uuid.UUID) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64          `bun:"id"`
		State       string         `bun:"state"`
		Args        map[string]any `bun:"args"`
		CreatedAt   time.Time      `bun:"created_at"`
		Attempt     int16          `bun:"attempt"`
		MaxAttempts int16          `bun:"max_attempts"`
	}

	var rows []riverJobRow
	err := r.db.NewSelect().
		Table("river_job").
		Column("id", "state", "args", "created_at", "attempt", "max_attempts").
		Where("kind = ?", AutomationJob{}.Kind()).
		Where("args->>'application_id' = ?", applicationID.String()).
		Order("created_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query automation jobs: %w", err)
	}

	out := make([]JobInfo, len(rows))
	for i, row := range rows {
		roundID, _ := row.Args["round_id"].(string)
		out[i] = JobInfo{
			ID:          row.ID,
			State:       row.State,
			RoundID:     roundID,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
			Attempt:     int(row.Attempt),
			MaxAttempts: int(row.MaxAttempts),
		}
	}
	return out, nil
}

// Migrate brings River's own tables up to date.
func Migrate(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run river migrations: %w", err)
	}
	return nil
}
