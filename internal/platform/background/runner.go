// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package background runs best-effort work outside the request lifecycle.

A task gets its own context with a deadline, detached from the request that
scheduled it, so that a client disconnect does not cancel a mail that is
already being sent. Failures and panics are logged and never propagated.

The server calls [Runner.Wait] during shutdown so that in-flight tasks can
finish.
*/
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/metrics"
)

// Task is a unit of best-effort work.
type Task func(ctx context.Context) error

// Runner tracks background goroutines.
type Runner struct {
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner creates a [Runner] whose tasks are each bounded by timeout.
func NewRunner(log *zap.Logger, timeout time.Duration) *Runner {
	return &Runner{log: log, timeout: timeout}
}

// Go schedules task under name. It returns immediately.
func (runner *Runner) Go(name string, task Task) {
	runner.wg.Add(1)
	metrics.BackgroundTasksInFlight.Inc()

	go func() {
		defer runner.wg.Done()
		defer metrics.BackgroundTasksInFlight.Dec()

		ctx, cancel := context.WithTimeout(context.Background(), runner.timeout)
		defer cancel()

		start := time.Now()
		if err := runner.run(ctx, task); err != nil {
			runner.log.Warn("background_task_failed",
				zap.String("task", name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return
		}

		runner.log.Debug("background_task_finished",
			zap.String("task", name),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()
}

func (runner *Runner) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("background_task_panicked: %v", recovered)
		}
	}()
	return task(ctx)
}

// Wait blocks until every scheduled task has returned or ctx is done.
func (runner *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		runner.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
