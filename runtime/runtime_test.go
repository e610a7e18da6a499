package runtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roundtable-ai/roundtable/core"
)

func startedRuntime(t *testing.T, optFns ...func(o *Options)) *InProcess {
	t.Helper()
	r := NewInProcess(optFns...)
	require.NoError(t, r.Start(context.Background()))
	return r
}

func TestScheduleResolvesWithResult(t *testing.T) {
	r := startedRuntime(t)

	handle, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		return core.NewAssistantMessage("worker", "done"), nil
	})
	require.NoError(t, err)

	msg, err := handle.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", msg.Text())
	assert.Equal(t, "worker", msg.AuthorName)
}

func TestScheduleResolvesWithError(t *testing.T) {
	r := startedRuntime(t)
	boom := errors.New("boom")

	handle, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		return core.Message{}, boom
	})
	require.NoError(t, err)

	_, err = handle.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestGetIsRepeatable(t *testing.T) {
	r := startedRuntime(t)

	handle, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		return core.NewAssistantMessage("worker", "stable"), nil
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		msg, err := handle.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "stable", msg.Text())
	}
}

func TestGetTimeoutLeavesHandleUsable(t *testing.T) {
	r := startedRuntime(t)

	release := make(chan struct{})
	handle, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		select {
		case <-release:
			return core.NewAssistantMessage("worker", "late"), nil
		case <-ctx.Done():
			return core.Message{}, ctx.Err()
		}
	})
	require.NoError(t, err)

	_, err = handle.GetTimeout(10 * time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrResultTimeout)

	close(release)

	msg, err := handle.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", msg.Text(), "a timed-out Get does not poison the handle")
}

func TestGetWithDeadlineContextReturnsResultTimeout(t *testing.T) {
	r := startedRuntime(t)

	release := make(chan struct{})
	defer close(release)
	handle, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return core.Message{}, ctx.Err()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = handle.Get(ctx)
	assert.ErrorIs(t, err, core.ErrResultTimeout)
}

func TestHandleCancelStopsTask(t *testing.T) {
	r := startedRuntime(t)

	handle, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		<-ctx.Done()
		return core.Message{}, core.ErrOrchestrationCancelled
	})
	require.NoError(t, err)

	handle.Cancel()

	_, err = handle.Get(context.Background())
	assert.ErrorIs(t, err, core.ErrOrchestrationCancelled)
}

func TestScheduleRequiresStart(t *testing.T) {
	r := NewInProcess()
	_, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		return core.Message{}, nil
	})
	require.Error(t, err)
}

func TestStartTwiceFails(t *testing.T) {
	r := startedRuntime(t)
	assert.Error(t, r.Start(context.Background()))
}

func TestStopWhenIdleWaitsForTasks(t *testing.T) {
	r := startedRuntime(t)

	var completed atomic.Int32
	for i := 0; i < 5; i++ {
		_, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
			time.Sleep(5 * time.Millisecond)
			completed.Add(1)
			return core.Message{}, nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, r.StopWhenIdle(context.Background()))
	assert.Equal(t, int32(5), completed.Load())
	assert.Equal(t, 0, r.ActiveTasks())

	_, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		return core.Message{}, nil
	})
	assert.Error(t, err, "no new tasks after StopWhenIdle")
}

func TestStopCancelsInFlightTasks(t *testing.T) {
	r := startedRuntime(t)

	handle, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
		<-ctx.Done()
		return core.Message{}, ctx.Err()
	})
	require.NoError(t, err)

	r.Stop()

	_, err = handle.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrencyLimitIsHonored(t *testing.T) {
	r := startedRuntime(t, func(o *Options) { o.MaxConcurrentTasks = 2 })

	var running, peak atomic.Int32
	for i := 0; i < 8; i++ {
		_, err := r.Schedule(func(ctx context.Context) (core.Message, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return core.Message{}, nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, r.StopWhenIdle(context.Background()))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
