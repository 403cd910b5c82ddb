// Package tasks provides a bounded runner for background units of work.
//
// The runner limits how many submitted tasks execute at once but does not
// schedule, prioritize, or retry. Callers hold a Task handle to await the
// outcome; dropping the handle does not stop the work.
package tasks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"mapgen/internal/logging"
)

// Task is a handle to a submitted unit of work.
type Task struct {
	id   string
	name string
	done chan struct{}
	err  error
}

// ID returns the task's unique identifier.
func (t *Task) ID() string { return t.id }

// Name returns the caller-supplied task name.
func (t *Task) Name() string { return t.name }

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the task's outcome. Valid only after Done is closed.
func (t *Task) Err() error { return t.err }

// Wait blocks until the task finishes or ctx ends. The task keeps running
// when ctx ends first.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner executes submitted work with a fixed concurrency bound.
type Runner struct {
	sem *semaphore.Weighted
	log *logging.Logger
}

// NewRunner creates a runner allowing up to maxWorkers concurrent tasks.
func NewRunner(maxWorkers int64, log *logging.Logger) *Runner {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Runner{
		sem: semaphore.NewWeighted(maxWorkers),
		log: log,
	}
}

// Submit queues fn for execution and returns its handle. Submission blocks
// while the pool is at capacity; ctx bounds that wait only, not fn itself.
func (r *Runner) Submit(ctx context.Context, name string, fn func(context.Context) error) (*Task, error) {
	if fn == nil {
		return nil, fmt.Errorf("tasks: fn is nil")
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("tasks: acquire worker: %w", err)
	}

	t := &Task{
		id:   uuid.NewString(),
		name: name,
		done: make(chan struct{}),
	}
	r.log.Debug("task %s (%s) started", t.id, t.name)

	// Abandoning the handle must not stop the work, so fn runs detached
	// from the submitter's cancellation.
	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer r.sem.Release(1)
		defer close(t.done)
		t.err = fn(runCtx)
		if t.err != nil {
			r.log.Warn("task %s (%s) failed: %v", t.id, t.name, t.err)
		} else {
			r.log.Debug("task %s (%s) finished", t.id, t.name)
		}
	}()
	return t, nil
}
