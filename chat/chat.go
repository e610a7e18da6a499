package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/history"
	"github.com/roundtable-ai/roundtable/logging"
)

// Options configures an AgentChat.
type Options struct {
	// History is the backing transcript store. Defaults to an unbounded
	// in-memory history when nil. Pass a core.ReducingHistory to have the
	// transcript reduced after each append.
	History core.ChatHistory

	// Logger receives structured events for appends, deliveries, and
	// invocations. Defaults to a no-op logger.
	Logger logging.Logger
}

// agentChannel is the private delivery queue and conversation view for a
// single registered agent instance.
type agentChannel struct {
	id      string
	name    string
	pending []core.Message
	view    []core.Message
}

func (c *agentChannel) enqueue(batch []core.Message) {
	c.pending = append(c.pending, batch...)
}

// drain moves all pending messages into the channel view and returns the view.
func (c *agentChannel) drain() []core.Message {
	c.view = append(c.view, c.pending...)
	c.pending = c.pending[:0]
	return c.view
}

// AgentChat is the conversation surface shared by a group of agents. All
// appended messages land in one transcript, and each registered agent observes
// that transcript through its own channel in the same relative order.
//
// AddMessages and InvokeAgent are mutually exclusive. A caller that starts one
// while another is in flight receives core.ErrConcurrentActivity immediately.
type AgentChat struct {
	history core.ChatHistory
	logger  logging.Logger

	guardMu sync.Mutex
	active  bool

	stateMu  sync.RWMutex
	channels map[string]*agentChannel
}

// New creates an AgentChat.
func New(optFns ...func(o *Options)) *AgentChat {
	opts := Options{
		History: nil,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	backing := opts.History
	if backing == nil {
		backing = history.NewInMemory()
	}

	return &AgentChat{
		history:  backing,
		logger:   opts.Logger,
		channels: make(map[string]*agentChannel),
	}
}

// acquire claims the activity guard, failing fast if another activity holds it.
func (ac *AgentChat) acquire() error {
	ac.guardMu.Lock()
	defer ac.guardMu.Unlock()
	if ac.active {
		return core.ErrConcurrentActivity
	}
	ac.active = true
	return nil
}

func (ac *AgentChat) release() {
	ac.guardMu.Lock()
	ac.active = false
	ac.guardMu.Unlock()
}

// AddMessages appends messages to the shared transcript and enqueues the
// batch for delivery to every registered agent channel in append order.
// It returns core.ErrConcurrentActivity when another add or invocation is
// already in progress.
func (ac *AgentChat) AddMessages(messages ...core.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := ac.acquire(); err != nil {
		return err
	}
	defer ac.release()

	return ac.append(messages, nil)
}

// append commits a batch to the transcript and broadcasts it. The origin
// channel (if any) receives the batch directly into its view, since its owner
// produced the messages and has already seen them.
func (ac *AgentChat) append(batch []core.Message, origin *agentChannel) error {
	if err := ac.history.Add(batch...); err != nil {
		return fmt.Errorf("append to transcript: %w", err)
	}

	ac.stateMu.Lock()
	for _, ch := range ac.channels {
		if ch == origin {
			ch.view = append(ch.view, batch...)
			continue
		}
		ch.enqueue(batch)
	}
	ac.stateMu.Unlock()

	ac.logger.Debug("messages appended to group chat",
		"count", len(batch),
		"transcript_len", ac.history.Len(),
	)

	if rh, ok := ac.history.(core.ReducingHistory); ok {
		reduced, err := rh.Reduce()
		if err != nil {
			return fmt.Errorf("reduce transcript: %w", err)
		}
		if reduced {
			ac.logger.Debug("transcript reduced", "transcript_len", ac.history.Len())
		}
	}
	return nil
}

// channelFor returns the registered channel for the agent, creating one seeded
// with the full current transcript on first use. Channels are keyed by agent
// name; names are unique within a group chat.
func (ac *AgentChat) channelFor(agent core.Agent) *agentChannel {
	ac.stateMu.Lock()
	defer ac.stateMu.Unlock()

	if ch, ok := ac.channels[agent.Name()]; ok {
		return ch
	}
	ch := &agentChannel{
		id:      uuid.NewString(),
		name:    agent.Name(),
		pending: ac.history.Messages(),
	}
	ac.channels[agent.Name()] = ch
	ac.logger.Debug("agent channel created", "agent", ch.name, "channel_id", ch.id)
	return ch
}

// InvokeAgent delivers any undelivered broadcast messages to the agent's
// channel, invokes the agent against its channel view, and appends the
// agent's responses to the shared transcript. The responses are returned in
// the order the agent produced them.
func (ac *AgentChat) InvokeAgent(ctx context.Context, agent core.Agent) ([]core.Message, error) {
	if err := ac.acquire(); err != nil {
		return nil, err
	}
	defer ac.release()

	ch := ac.channelFor(agent)

	ac.stateMu.Lock()
	view := ch.drain()
	input := make([]core.Message, len(view))
	copy(input, view)
	ac.stateMu.Unlock()

	msgCh, errCh := agent.Invoke(ctx, input)

	var responses []core.Message
	for msgCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("invoke agent %q: %w", agent.Name(), ctx.Err())
		case msg, ok := <-msgCh:
			if !ok {
				msgCh = nil
				continue
			}
			responses = append(responses, msg)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("invoke agent %q: %w", agent.Name(), err)
			}
		}
	}

	if len(responses) > 0 {
		if err := ac.append(responses, ch); err != nil {
			return nil, err
		}
	}
	return responses, nil
}

// InvokeAgentStream behaves like InvokeAgent for an agent's streaming surface:
// each chunk is forwarded to onChunk as it arrives, and once the stream ends
// the chunks are folded into a single message that is appended to the shared
// transcript. The folded message is returned.
func (ac *AgentChat) InvokeAgentStream(ctx context.Context, agent core.Agent, onChunk func(core.Chunk)) (core.Message, error) {
	if err := ac.acquire(); err != nil {
		return core.Message{}, err
	}
	defer ac.release()

	ch := ac.channelFor(agent)

	ac.stateMu.Lock()
	view := ch.drain()
	input := make([]core.Message, len(view))
	copy(input, view)
	ac.stateMu.Unlock()

	chunkCh, errCh := agent.InvokeStream(ctx, input)

	var chunks []core.Chunk
	for chunkCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return core.Message{}, fmt.Errorf("invoke agent %q: %w", agent.Name(), ctx.Err())
		case chunk, ok := <-chunkCh:
			if !ok {
				chunkCh = nil
				continue
			}
			chunks = append(chunks, chunk)
			if onChunk != nil {
				onChunk(chunk)
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return core.Message{}, fmt.Errorf("invoke agent %q: %w", agent.Name(), err)
			}
		}
	}

	if len(chunks) == 0 {
		return core.Message{}, nil
	}

	msg, err := core.FoldChunks(chunks)
	if err != nil {
		return core.Message{}, fmt.Errorf("fold stream from agent %q: %w", agent.Name(), err)
	}
	if msg.AuthorName == "" {
		msg.AuthorName = agent.Name()
	}
	if err := ac.append([]core.Message{msg}, ch); err != nil {
		return core.Message{}, err
	}
	return msg, nil
}

// GetChatMessages returns the shared transcript with the most recent message
// first.
func (ac *AgentChat) GetChatMessages() []core.Message {
	msgs := ac.history.Messages()
	reverse(msgs)
	return msgs
}

// GetAgentMessages returns the named agent's channel view, including messages
// enqueued but not yet delivered, with the most recent message first. The
// second return value reports whether the agent has a channel.
func (ac *AgentChat) GetAgentMessages(name string) ([]core.Message, bool) {
	ac.stateMu.RLock()
	defer ac.stateMu.RUnlock()

	ch, ok := ac.channels[name]
	if !ok {
		return nil, false
	}
	msgs := make([]core.Message, 0, len(ch.view)+len(ch.pending))
	msgs = append(msgs, ch.view...)
	msgs = append(msgs, ch.pending...)
	reverse(msgs)
	return msgs, true
}

// Transcript returns the shared transcript in append order.
func (ac *AgentChat) Transcript() []core.Message {
	return ac.history.Messages()
}

// Len returns the number of messages in the shared transcript.
func (ac *AgentChat) Len() int {
	return ac.history.Len()
}

func reverse(msgs []core.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
