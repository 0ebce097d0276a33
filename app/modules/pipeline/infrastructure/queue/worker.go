package pipelinequeue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"
)

// AutomationWorker hands queued transitions to the bound executor. A
// returned error makes River retry the job.
type AutomationWorker struct {
	river.WorkerDefaults[AutomationJob]
	runner *Runner
	logger *slog.Logger
}

func (w *AutomationWorker) Work(ctx context.Context, job *river.Job[AutomationJob]) error {
	executor := w.runner.boundExecutor()
	if executor == nil {
		return fmt.Errorf("automation executor not bound")
	}
	if err := executor.Dispatch(ctx, job.Args.task()); err != nil {
		w.logger.WarnContext(ctx, "Automation job failed",
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.String("application_id", job.Args.ApplicationID.String()),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
