// Package roundtable provides a high-level façade over the orchestration,
// runtime and manager packages enabling rapid construction of group-chat
// multi-agent systems. Most applications interact with this package by:
//  1. Creating a Roundtable via New() with a manager and member agents
//  2. Invoking a task asynchronously (Invoke) or synchronously (InvokeSync)
//  3. Shutting down via Close() once all work is done
//
// The façade delegates the turn loop to orchestration.GroupChat and task
// hosting to an in-process runtime it owns. All defaults are safe for local
// development and testing; production deployments typically supply a
// structured logger and a bounded chat history.
package roundtable

import (
	"context"

	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/logging"
	"github.com/roundtable-ai/roundtable/manager"
	"github.com/roundtable-ai/roundtable/orchestration"
	"github.com/roundtable-ai/roundtable/runtime"
)

// Options configures the Roundtable instance.
type Options struct {
	// History backs the shared transcript; pass a core.ReducingHistory to
	// bound transcript growth. Defaults to an unbounded in-memory history
	// per invocation.
	History core.ChatHistory

	// Streaming enables the chunked agent invocation path with per-chunk
	// callbacks.
	Streaming bool

	// AgentResponseCallback observes each completed agent response.
	AgentResponseCallback orchestration.AgentResponseCallback

	// StreamingAgentResponseCallback observes each chunk when Streaming is on.
	StreamingAgentResponseCallback orchestration.StreamingAgentResponseCallback

	// MaxConcurrentOrchestrations limits orchestrations running at once on
	// the owned runtime. Zero means unlimited.
	MaxConcurrentOrchestrations int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Roundtable is the high-level façade aggregating an orchestration and the
// runtime it runs on.
type Roundtable struct {
	opts Options
	gc   *orchestration.GroupChat
	rt   *runtime.InProcess
}

// New creates a Roundtable from a manager policy and member agents, backed by
// an owned in-process runtime that is started immediately.
func New(mgr manager.GroupChatManager, members []core.Agent, optFns ...func(o *Options)) (*Roundtable, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	gc, err := orchestration.NewGroupChat(mgr, members, func(o *orchestration.Options) {
		o.History = opts.History
		o.Streaming = opts.Streaming
		o.AgentResponseCallback = opts.AgentResponseCallback
		o.StreamingAgentResponseCallback = opts.StreamingAgentResponseCallback
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	rt := runtime.NewInProcess(func(o *runtime.Options) {
		o.MaxConcurrentTasks = opts.MaxConcurrentOrchestrations
		o.Logger = opts.Logger
	})
	if err := rt.Start(context.Background()); err != nil {
		return nil, err
	}

	return &Roundtable{opts: opts, gc: gc, rt: rt}, nil
}

// Invoke starts an asynchronous group chat for the task and returns the
// result handle immediately.
func (r *Roundtable) Invoke(task string) (*runtime.ResultHandle, error) {
	return r.gc.Invoke(task, r.rt)
}

// InvokeSync is a synchronous helper that runs the group chat for the task
// and blocks until its result resolves or ctx is done.
func (r *Roundtable) InvokeSync(ctx context.Context, task string) (core.Message, error) {
	handle, err := r.gc.Invoke(task, r.rt)
	if err != nil {
		return core.Message{}, err
	}
	return handle.Get(ctx)
}

// Close waits for in-flight orchestrations to finish and stops the runtime.
func (r *Roundtable) Close(ctx context.Context) error {
	return r.rt.StopWhenIdle(ctx)
}
