package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/logging"
)

// Task is a unit of work scheduled on a runtime. The context is cancelled
// when the task's handle is cancelled or the runtime stops.
type Task func(ctx context.Context) (core.Message, error)

// Options holds configuration overrides passed to NewInProcess().
type Options struct {
	// MaxConcurrentTasks limits how many scheduled tasks run at once.
	// Additional tasks wait for a slot. Zero or negative means unlimited.
	MaxConcurrentTasks int
	// Logger receives structured lifecycle events.
	Logger logging.Logger
}

// InProcess runs scheduled tasks on goroutines within the current process.
// Public methods are safe for concurrent use.
type InProcess struct {
	logger logging.Logger

	group *errgroup.Group

	mu      sync.Mutex
	started bool
	stopped bool
	baseCtx context.Context
	cancel  context.CancelFunc
	active  map[string]*ResultHandle
}

// NewInProcess constructs an in-process runtime with optional overrides.
func NewInProcess(optFns ...func(o *Options)) *InProcess {
	opts := Options{
		MaxConcurrentTasks: 0,
		Logger:             logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	group := &errgroup.Group{}
	if opts.MaxConcurrentTasks > 0 {
		group.SetLimit(opts.MaxConcurrentTasks)
	}

	return &InProcess{
		logger: opts.Logger,
		group:  group,
		active: make(map[string]*ResultHandle),
	}
}

// Start prepares the runtime to accept tasks. It returns an error when called
// on a runtime that has already been started or stopped.
func (r *InProcess) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return errors.New("runtime already stopped")
	}
	if r.started {
		return errors.New("runtime already started")
	}
	r.baseCtx, r.cancel = context.WithCancel(ctx)
	r.started = true
	r.logger.Debug("runtime started")
	return nil
}

// Schedule submits a task and returns its handle. The task runs on its own
// goroutine (subject to the concurrency limit) with a context derived from
// the runtime's. Schedule fails when the runtime has not been started or has
// stopped.
func (r *InProcess) Schedule(task Task) (*ResultHandle, error) {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil, errors.New("runtime not started")
	}
	if r.stopped {
		r.mu.Unlock()
		return nil, errors.New("runtime already stopped")
	}

	taskCtx, cancel := context.WithCancel(r.baseCtx)
	handle := newResultHandle(core.NewID(), cancel)
	r.active[handle.id] = handle
	r.mu.Unlock()

	r.logger.Debug("task scheduled", "task_id", handle.id)

	r.group.Go(func() error {
		start := time.Now()
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.active, handle.id)
			r.mu.Unlock()
		}()

		msg, err := task(taskCtx)
		if err != nil {
			r.logger.Debug("task failed",
				"task_id", handle.id,
				"duration", time.Since(start),
				"error", err.Error(),
			)
			handle.resolve(core.Message{}, fmt.Errorf("task %s: %w", handle.id, err))
			return nil
		}

		r.logger.Debug("task completed",
			"task_id", handle.id,
			"duration", time.Since(start),
		)
		handle.resolve(msg, nil)
		return nil
	})

	return handle, nil
}

// StopWhenIdle stops accepting new tasks and blocks until every in-flight
// task has resolved, or until ctx is done.
func (r *InProcess) StopWhenIdle(ctx context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return errors.New("runtime not started")
	}
	r.stopped = true
	r.mu.Unlock()

	waitDone := make(chan struct{})
	go func() {
		defer close(waitDone)
		_ = r.group.Wait()
	}()

	select {
	case <-waitDone:
		r.logger.Debug("runtime idle, stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for idle: %w", ctx.Err())
	}
}

// Stop cancels every in-flight task and stops accepting new ones. It returns
// once all tasks have observed the cancellation and resolved.
func (r *InProcess) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	_ = r.group.Wait()
	r.logger.Debug("runtime stopped")
}

// ActiveTasks returns the number of tasks currently tracked by the runtime.
func (r *InProcess) ActiveTasks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
