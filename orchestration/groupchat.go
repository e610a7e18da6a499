package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/roundtable-ai/roundtable/chat"
	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/logging"
	"github.com/roundtable-ai/roundtable/manager"
	"github.com/roundtable-ai/roundtable/runtime"
)

// AgentResponseCallback observes each completed agent response. Callbacks
// must not mutate the messages they receive.
type AgentResponseCallback func(msg core.Message)

// StreamingAgentResponseCallback observes each streamed chunk as it arrives.
// final mirrors the chunk's Final marker for convenience.
type StreamingAgentResponseCallback func(chunk core.Chunk, final bool)

// Options holds configuration overrides passed to NewGroupChat().
type Options struct {
	// History backs the shared transcript. Pass a core.ReducingHistory to
	// bound transcript growth between turns. When nil, an unbounded in-memory
	// history is created per invocation. A non-nil History is shared across
	// invocations; its concurrent safety is then the caller's concern.
	History core.ChatHistory

	// Streaming switches agent turns to the streaming invocation path. Chunks
	// are folded into one message before it enters the transcript.
	Streaming bool

	// AgentResponseCallback fires once per completed agent response.
	AgentResponseCallback AgentResponseCallback

	// StreamingAgentResponseCallback fires once per chunk when Streaming is
	// enabled.
	StreamingAgentResponseCallback StreamingAgentResponseCallback

	// Logger receives structured turn-loop events.
	Logger logging.Logger
}

// GroupChat coordinates a set of named agents under a GroupChatManager
// policy. Construct one with NewGroupChat and run it with Invoke; a GroupChat
// value holds no per-conversation state, that lives in the transcript and in
// the manager.
type GroupChat struct {
	mgr          manager.GroupChatManager
	members      []core.Agent
	byName       map[string]core.Agent
	participants []manager.Participant

	history     core.ChatHistory
	streaming   bool
	responseCb  AgentResponseCallback
	streamingCb StreamingAgentResponseCallback
	logger      logging.Logger
}

// NewGroupChat validates the member list and manager and returns a ready
// orchestration. It fails with a *core.ConfigError when members is empty,
// the manager is nil, or two members share a name.
func NewGroupChat(mgr manager.GroupChatManager, members []core.Agent, optFns ...func(o *Options)) (*GroupChat, error) {
	if mgr == nil {
		return nil, core.NewConfigError("manager", "must not be nil")
	}
	if len(members) == 0 {
		return nil, core.NewConfigError("members", "must not be empty")
	}

	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	byName := make(map[string]core.Agent, len(members))
	participants := make([]manager.Participant, 0, len(members))
	for _, m := range members {
		if m == nil {
			return nil, core.NewConfigError("members", "must not contain nil agents")
		}
		name := m.Name()
		if name == "" {
			return nil, core.NewConfigError("members", "agent names must not be empty")
		}
		if _, exists := byName[name]; exists {
			return nil, core.NewConfigError("members", fmt.Sprintf("duplicate agent name %q", name))
		}
		byName[name] = m
		participants = append(participants, manager.Participant{
			Name:        name,
			Description: m.Description(),
		})
	}

	return &GroupChat{
		mgr:          mgr,
		members:      members,
		byName:       byName,
		participants: participants,
		history:      opts.History,
		streaming:    opts.Streaming,
		responseCb:   opts.AgentResponseCallback,
		streamingCb:  opts.StreamingAgentResponseCallback,
		logger:       opts.Logger,
	}, nil
}

// Participants returns the member identities in registration order.
func (g *GroupChat) Participants() []manager.Participant {
	out := make([]manager.Participant, len(g.participants))
	copy(out, g.participants)
	return out
}

// Invoke records the task as the first transcript entry, schedules the turn
// loop on the runtime, and returns immediately with the result handle. The
// caller decides when and how long to wait via the handle.
func (g *GroupChat) Invoke(task string, rt *runtime.InProcess) (*runtime.ResultHandle, error) {
	return g.InvokeMessage(core.NewUserMessage(task), rt)
}

// InvokeMessage is Invoke with a caller-constructed task message.
func (g *GroupChat) InvokeMessage(task core.Message, rt *runtime.InProcess) (*runtime.ResultHandle, error) {
	ac := chat.New(func(o *chat.Options) {
		o.History = g.history
		o.Logger = g.logger
	})

	if err := ac.AddMessages(task); err != nil {
		return nil, fmt.Errorf("record task: %w", err)
	}

	handle, err := rt.Schedule(func(ctx context.Context) (core.Message, error) {
		return g.run(ctx, ac)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule orchestration: %w", err)
	}

	g.logger.Debug("orchestration scheduled",
		"task_id", handle.ID(),
		"members", len(g.members),
	)
	return handle, nil
}

// run is the turn loop. Cancellation is observed at the top of each
// iteration, never mid-invocation.
func (g *GroupChat) run(ctx context.Context, ac *chat.AgentChat) (core.Message, error) {
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return core.Message{}, core.ErrOrchestrationCancelled
		default:
		}

		transcript := ac.Transcript()

		term, err := g.mgr.ShouldTerminate(ctx, transcript)
		if err != nil {
			return core.Message{}, fmt.Errorf("should terminate: %w", err)
		}
		if term.Value {
			g.logger.Debug("conversation terminated",
				"reason", term.Reason,
				"rounds", g.mgr.CurrentRound(),
				"duration", time.Since(start),
			)
			break
		}

		ask, err := g.mgr.ShouldRequestUserInput(ctx, transcript)
		if err != nil {
			return core.Message{}, fmt.Errorf("should request user input: %w", err)
		}
		if ask.Value {
			if err := g.humanTurn(ctx, ac, transcript, ask.Reason); err != nil {
				return core.Message{}, g.loopErr(ctx, err)
			}
			// Termination is re-evaluated before any selection happens.
			continue
		}

		if err := g.agentTurn(ctx, ac, transcript); err != nil {
			return core.Message{}, g.loopErr(ctx, err)
		}
	}

	result, err := g.mgr.FilterResults(ctx, ac.Transcript())
	if err != nil {
		return core.Message{}, fmt.Errorf("filter results: %w", err)
	}
	if result.Value == nil {
		return core.Message{}, fmt.Errorf("%s: %w", result.Reason, core.ErrNoResult)
	}
	return *result.Value, nil
}

// loopErr maps failures caused by cancellation to the cancellation sentinel
// so a cancelled handle always resolves the same way regardless of where the
// loop happened to be.
func (g *GroupChat) loopErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return core.ErrOrchestrationCancelled
	}
	return err
}

// humanTurn solicits human input and appends it as a user message. It does
// not advance the round counter.
func (g *GroupChat) humanTurn(ctx context.Context, ac *chat.AgentChat, transcript []core.Message, reason string) error {
	waitStart := time.Now()

	msg, err := g.mgr.GetHumanResponse(ctx, transcript)
	if err != nil {
		return fmt.Errorf("get human response: %w", err)
	}
	if msg.Role == "" {
		msg.Role = core.RoleUser
	}

	g.logger.Debug("human input received",
		"reason", reason,
		"empty", msg.IsEmpty(),
		"wait", time.Since(waitStart),
	)

	if err := ac.AddMessages(msg); err != nil {
		return fmt.Errorf("append human input: %w", err)
	}
	return nil
}

// agentTurn selects the next agent, invokes it, and completes the round.
func (g *GroupChat) agentTurn(ctx context.Context, ac *chat.AgentChat, transcript []core.Message) error {
	sel, err := g.mgr.SelectNextAgent(ctx, transcript, g.participants)
	if err != nil {
		return fmt.Errorf("select next agent: %w", err)
	}

	agent, ok := g.byName[sel.Value]
	if !ok {
		names := make([]string, 0, len(g.participants))
		for _, p := range g.participants {
			names = append(names, p.Name)
		}
		return &core.SelectionError{Selected: sel.Value, Participants: names}
	}

	round := g.mgr.CurrentRound() + 1
	g.logger.Debug("agent selected",
		"agent", sel.Value,
		"reason", sel.Reason,
		"round", round,
	)

	turnStart := time.Now()

	var responses []core.Message
	if g.streaming {
		msg, err := ac.InvokeAgentStream(ctx, agent, func(c core.Chunk) {
			if g.streamingCb != nil {
				g.streamingCb(c, c.Final)
			}
		})
		if err != nil {
			return err
		}
		if !msg.IsEmpty() {
			responses = []core.Message{msg}
		}
	} else {
		responses, err = ac.InvokeAgent(ctx, agent)
		if err != nil {
			return err
		}
	}

	g.mgr.CompleteRound()

	g.logger.Debug("agent turn completed",
		"agent", sel.Value,
		"round", g.mgr.CurrentRound(),
		"responses", len(responses),
		"duration", time.Since(turnStart),
	)

	if g.responseCb != nil {
		for _, resp := range responses {
			g.responseCb(resp)
		}
	}
	return nil
}
