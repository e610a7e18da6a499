package manager

import (
	"context"

	"github.com/roundtable-ai/roundtable/core"
)

// Participant carries the identity of one orchestration member as exposed to
// selection decisions: the unique name and the capability description used
// by model-driven managers.
type Participant struct {
	Name        string
	Description string
}

// BoolResult is a boolean decision plus its justification.
type BoolResult struct {
	Value  bool
	Reason string
}

// StringResult is a string decision (e.g. a selected agent name) plus its
// justification.
type StringResult struct {
	Value  string
	Reason string
}

// MessageResult is a message decision plus its justification. Value is nil
// when no result could be produced; Reason then explains why.
type MessageResult struct {
	Value  *core.Message
	Reason string
}

// GroupChatManager decides the policy of a group-chat orchestration. All
// operations take the current transcript as input and must not mutate it;
// manager-local bookkeeping is the only permitted side effect.
//
// Call protocol, enforced by the orchestration turn loop:
//   - ShouldTerminate is evaluated first each iteration; a true result means
//     no further selection or invocation happens
//   - ShouldRequestUserInput is evaluated next; when true, GetHumanResponse
//     is called and its message is appended as user input before any agent
//     selection. Human input does not advance the round counter.
//   - SelectNextAgent is re-evaluated every round
//   - CompleteRound is called exactly once after each completed agent turn
//   - FilterResults is called exactly once, after termination
type GroupChatManager interface {
	// ShouldRequestUserInput reports whether human input should be solicited
	// before the next agent selection.
	ShouldRequestUserInput(ctx context.Context, transcript []core.Message) (BoolResult, error)

	// GetHumanResponse solicits and returns the human's message. Only called
	// when ShouldRequestUserInput returned true. Implementations should bound
	// their waits and return an empty sentinel message on expiry rather than
	// blocking the turn loop forever.
	GetHumanResponse(ctx context.Context, transcript []core.Message) (core.Message, error)

	// SelectNextAgent returns the name of the participant to invoke next.
	// Returning a name not present among participants is a contract
	// violation; implementations that can detect it must fail fast with a
	// *core.SelectionError instead of guessing.
	SelectNextAgent(ctx context.Context, transcript []core.Message, participants []Participant) (StringResult, error)

	// ShouldTerminate reports whether the conversation is complete.
	// Implementations embedding Base must consult the base decision first
	// and OR their own condition on top.
	ShouldTerminate(ctx context.Context, transcript []core.Message) (BoolResult, error)

	// FilterResults reduces the final transcript into the orchestration's
	// result value.
	FilterResults(ctx context.Context, transcript []core.Message) (MessageResult, error)

	// CurrentRound returns the number of completed agent turns.
	CurrentRound() int

	// CompleteRound records the completion of one agent turn.
	CompleteRound()
}
