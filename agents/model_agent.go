package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/logging"
	"github.com/roundtable-ai/roundtable/model"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	// Description is the capability summary exposed to selection policies.
	Description string

	// Instructions is the system prompt prepended to every completion.
	Instructions string

	// MaxHistoryMessages caps how many trailing transcript messages are sent
	// to the model. Zero means no cap.
	MaxHistoryMessages int

	// Logger receives per-invocation events.
	Logger logging.Logger
}

// ModelAgent produces responses by delegating each turn to a chat model. It
// answers with exactly one assistant message per invocation; the streaming
// surface emits that message as a single final chunk since the underlying
// model abstraction is one-shot.
type ModelAgent struct {
	name         string
	description  string
	llm          model.Model
	instructions string
	maxHistory   int
	logger       logging.Logger
}

// NewModelAgent creates a model-backed agent.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) (*ModelAgent, error) {
	if name == "" {
		return nil, core.NewConfigError("name", "must not be empty")
	}
	if llm == nil {
		return nil, core.NewConfigError("model", "must not be nil")
	}

	opts := ModelAgentOptions{
		Description: fmt.Sprintf("Agent %s", name),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelAgent{
		name:         name,
		description:  opts.Description,
		llm:          llm,
		instructions: opts.Instructions,
		maxHistory:   opts.MaxHistoryMessages,
		logger:       opts.Logger,
	}, nil
}

// Name returns the agent's unique name.
func (a *ModelAgent) Name() string { return a.name }

// Description returns the capability summary used by selection policies.
func (a *ModelAgent) Description() string { return a.description }

func (a *ModelAgent) window(messages []core.Message) []core.Message {
	if a.maxHistory <= 0 || len(messages) <= a.maxHistory {
		return messages
	}
	return messages[len(messages)-a.maxHistory:]
}

func (a *ModelAgent) complete(ctx context.Context, messages []core.Message) (core.Message, error) {
	resp, err := a.llm.Complete(ctx, model.Request{
		Instructions: a.instructions,
		Messages:     a.window(messages),
	})
	if err != nil {
		return core.Message{}, fmt.Errorf("agent %q completion: %w", a.name, err)
	}

	a.logger.Debug("model agent completed turn",
		"agent", a.name,
		"model", a.llm.Info().Name,
		"input_messages", len(messages),
	)
	return core.NewAssistantMessage(a.name, resp.Text), nil
}

// Invoke runs one model completion against the given conversation view.
func (a *ModelAgent) Invoke(ctx context.Context, messages []core.Message) (<-chan core.Message, <-chan error) {
	msgCh := make(chan core.Message, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(msgCh)
		defer close(errCh)

		msg, err := a.complete(ctx, messages)
		if err != nil {
			errCh <- err
			return
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case msgCh <- msg:
		}
	}()

	return msgCh, errCh
}

// InvokeStream runs one model completion and emits the response as chunks
// split on word boundaries, the last one marked final.
func (a *ModelAgent) InvokeStream(ctx context.Context, messages []core.Message) (<-chan core.Chunk, <-chan error) {
	chunkCh := make(chan core.Chunk, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(chunkCh)
		defer close(errCh)

		msg, err := a.complete(ctx, messages)
		if err != nil {
			errCh <- err
			return
		}

		words := strings.Fields(msg.Text())
		if len(words) == 0 {
			words = []string{""}
		}
		for i, word := range words {
			if i > 0 {
				word = " " + word
			}
			chunk := core.Chunk{
				Role:       core.RoleAssistant,
				AuthorName: a.name,
				Text:       word,
				Final:      i == len(words)-1,
			}
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case chunkCh <- chunk:
			}
		}
	}()

	return chunkCh, errCh
}
