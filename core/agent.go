package core

import "context"

// Agent defines the capability contract the orchestration core consumes.
// An agent is a named, opaque participant that produces response messages
// given the current transcript; how it talks to a model internally is not
// the orchestrator's concern.
//
// Semantics & Guarantees expected from implementations:
//   - Channel Lifecycle: the returned message/chunk channel is closed after
//     the invocation completes (success, error, or cancellation). The error
//     channel carries at most one terminal error then closes (buffered size 1).
//   - Ordering: messages/chunks are delivered in production order.
//   - Cancellation: implementations must respect ctx cancellation and stop
//     emitting promptly.
//
// Name must be unique within one orchestration: it is used both for message
// authorship and for manager selection decisions. Description is used by
// model-driven managers to describe capabilities to a selection model.
type Agent interface {
	Name() string
	Description() string

	// Invoke runs the agent against the transcript, returning its response
	// messages as an ordered stream.
	Invoke(ctx context.Context, transcript []Message) (<-chan Message, <-chan error)

	// InvokeStream runs the agent against the transcript, returning
	// incremental chunks that fold into the agent's logical response.
	InvokeStream(ctx context.Context, transcript []Message) (<-chan Chunk, <-chan error)
}
