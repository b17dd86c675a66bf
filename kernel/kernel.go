// Package kernel runs the beacon's long-lived tasks.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrTaskPanicked is returned by Run when a task panics.
var ErrTaskPanicked = errors.New("kernel: task panicked")

// Task is a named loop. Run returns when ctx is cancelled or the task fails.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run starts every task and waits for all of them.
//
// The first failing task cancels the others. A task that returns because
// ctx ended is not an error.
func Run(ctx context.Context, log *zap.Logger, tasks ...Task) error {
	if log == nil {
		log = zap.NewNop()
	}
	g, gctx := errgroup.WithContext(ctx)
	latch := &panicLatch{}
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			err := runTask(gctx, log, latch, t)
			if cerr := gctx.Err(); cerr != nil && errors.Is(err, cerr) {
				return nil
			}
			if err != nil {
				log.Error("task stopped", zap.String("task", t.Name), zap.Error(err))
			}
			return err
		})
	}
	return g.Wait()
}

func runTask(ctx context.Context, log *zap.Logger, latch *panicLatch, t Task) (err error) {
	defer func() {
		if v := recover(); v != nil {
			latch.report(PanicInfo{Task: t.Name, Value: v})
			err = fmt.Errorf("%w: %s: %v", ErrTaskPanicked, t.Name, v)
		}
	}()
	log.Debug("task started", zap.String("task", t.Name))
	return t.Run(ctx)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
