package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/roundtable-ai/roundtable/core"
)

// ResultHandle is a one-shot future for a scheduled task. It resolves exactly
// once with either a final message or an error; subsequent resolutions are
// ignored. All methods are safe for concurrent use.
//
// A Get that times out returns core.ErrResultTimeout and leaves the handle
// untouched: the task keeps running and a later Get can still succeed.
type ResultHandle struct {
	id     string
	done   chan struct{}
	cancel context.CancelFunc

	once sync.Once
	msg  core.Message
	err  error
}

func newResultHandle(id string, cancel context.CancelFunc) *ResultHandle {
	return &ResultHandle{
		id:     id,
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// resolve records the task outcome. Only the first call has any effect.
func (h *ResultHandle) resolve(msg core.Message, err error) {
	h.once.Do(func() {
		h.msg = msg
		h.err = err
		close(h.done)
	})
}

// ID returns the unique identifier assigned to the scheduled task.
func (h *ResultHandle) ID() string { return h.id }

// Done returns a channel closed when the handle has resolved.
func (h *ResultHandle) Done() <-chan struct{} { return h.done }

// Cancel requests cancellation of the underlying task. The handle resolves
// once the task observes the cancellation and returns.
func (h *ResultHandle) Cancel() { h.cancel() }

// Get blocks until the task resolves or ctx is done. A ctx expiry does not
// affect the task; retry with a fresh context to keep waiting.
func (h *ResultHandle) Get(ctx context.Context) (core.Message, error) {
	select {
	case <-h.done:
		return h.msg, h.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return core.Message{}, fmt.Errorf("task %s: %w", h.id, core.ErrResultTimeout)
		}
		return core.Message{}, fmt.Errorf("task %s: %w", h.id, ctx.Err())
	}
}

// GetTimeout waits at most d for the task to resolve. It returns
// core.ErrResultTimeout when the deadline passes first; the task keeps
// running and the handle remains valid.
func (h *ResultHandle) GetTimeout(d time.Duration) (core.Message, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-h.done:
		return h.msg, h.err
	case <-timer.C:
		return core.Message{}, fmt.Errorf("task %s: %w", h.id, core.ErrResultTimeout)
	}
}
