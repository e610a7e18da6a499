package agents

import (
	"context"

	"github.com/roundtable-ai/roundtable/core"
)

// ResponseFunc maps a conversation view to one response text.
type ResponseFunc func(ctx context.Context, messages []core.Message) (string, error)

// FuncAgent lifts a plain function into the agent contract. Useful for
// deterministic participants (formatters, validators, fixtures) that do not
// need a model.
type FuncAgent struct {
	name        string
	description string
	fn          ResponseFunc
}

// NewFuncAgent creates an agent that answers each turn via fn.
func NewFuncAgent(name, description string, fn ResponseFunc) (*FuncAgent, error) {
	if name == "" {
		return nil, core.NewConfigError("name", "must not be empty")
	}
	if fn == nil {
		return nil, core.NewConfigError("fn", "must not be nil")
	}
	return &FuncAgent{name: name, description: description, fn: fn}, nil
}

// Name returns the agent's unique name.
func (a *FuncAgent) Name() string { return a.name }

// Description returns the capability summary used by selection policies.
func (a *FuncAgent) Description() string { return a.description }

// Invoke answers with a single assistant message produced by the wrapped
// function.
func (a *FuncAgent) Invoke(ctx context.Context, messages []core.Message) (<-chan core.Message, <-chan error) {
	msgCh := make(chan core.Message, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(msgCh)
		defer close(errCh)

		text, err := a.fn(ctx, messages)
		if err != nil {
			errCh <- err
			return
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case msgCh <- core.NewAssistantMessage(a.name, text):
		}
	}()

	return msgCh, errCh
}

// InvokeStream emits the wrapped function's response as one final chunk.
func (a *FuncAgent) InvokeStream(ctx context.Context, messages []core.Message) (<-chan core.Chunk, <-chan error) {
	chunkCh := make(chan core.Chunk, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(chunkCh)
		defer close(errCh)

		text, err := a.fn(ctx, messages)
		if err != nil {
			errCh <- err
			return
		}
		chunk := core.Chunk{
			Role:       core.RoleAssistant,
			AuthorName: a.name,
			Text:       text,
			Final:      true,
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case chunkCh <- chunk:
		}
	}()

	return chunkCh, errCh
}
