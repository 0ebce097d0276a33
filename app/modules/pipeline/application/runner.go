package pipelineservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
)

// GoroutineRunner runs each transition's automation on its own goroutine.
// The caller's cancellation does not reach it; Wait drains in-flight work.
type GoroutineRunner struct {
	executor pipelinetypes.AutomationExecutor
	logger   *slog.Logger
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
}

// NewGoroutineRunner creates a GoroutineRunner.
func NewGoroutineRunner(logger *slog.Logger) *GoroutineRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoroutineRunner{logger: logger}
}

func (r *GoroutineRunner) Bind(executor pipelinetypes.AutomationExecutor) {
	r.executor = executor
}

func (r *GoroutineRunner) Submit(ctx context.Context, task pipelinetypes.AutomationTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("automation runner is closed")
	}
	if r.executor == nil {
		return fmt.Errorf("automation runner has no executor")
	}

	r.wg.Add(1)
	go func(ctx context.Context) {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Automation panicked",
					slog.String("application_id", task.ApplicationID.String()),
					slog.Any("panic", rec),
				)
			}
		}()
		if err := r.executor.Dispatch(ctx, task); err != nil {
			r.logger.ErrorContext(ctx, "Automation dispatch failed",
				slog.String("application_id", task.ApplicationID.String()),
				slog.String("round_id", task.RoundID.String()),
				slog.Any("error", err),
			)
		}
	}(context.WithoutCancel(ctx))
	return nil
}

// Close stops accepting tasks and waits for in-flight ones.
func (r *GoroutineRunner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}

// Wait blocks until every submitted task has finished.
func (r *GoroutineRunner) Wait() {
	r.wg.Wait()
}

// InlineRunner dispatches synchronously inside Submit.
type InlineRunner struct {
	executor pipelinetypes.AutomationExecutor
}

func NewInlineRunner() *InlineRunner { return &InlineRunner{} }

func (r *InlineRunner) Bind(executor pipelinetypes.AutomationExecutor) {
	r.executor = executor
}

func (r *InlineRunner) Submit(ctx context.Context, task pipelinetypes.AutomationTask) error {
	if r.executor == nil {
		return fmt.Errorf("automation runner has no executor")
	}
	return r.executor.Dispatch(ctx, task)
}
