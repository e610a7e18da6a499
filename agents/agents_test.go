package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/model"
)

func collect(msgCh <-chan core.Message, errCh <-chan error) ([]core.Message, error) {
	var msgs []core.Message
	for msgCh != nil || errCh != nil {
		select {
		case m, ok := <-msgCh:
			if !ok {
				msgCh = nil
				continue
			}
			msgs = append(msgs, m)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return msgs, err
			}
		}
	}
	return msgs, nil
}

func TestModelAgentInvoke(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse("write a slogan", "Fresh code daily.")

	agent, err := NewModelAgent("writer", llm, func(o *ModelAgentOptions) {
		o.Description = "writes copy"
		o.Instructions = "You write short slogans."
	})
	require.NoError(t, err)

	assert.Equal(t, "writer", agent.Name())
	assert.Equal(t, "writes copy", agent.Description())

	msgs, err := collect(agent.Invoke(context.Background(), []core.Message{
		core.NewUserMessage("write a slogan"),
	}))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Fresh code daily.", msgs[0].Text())
	assert.Equal(t, "writer", msgs[0].AuthorName)
	assert.Equal(t, core.RoleAssistant, msgs[0].Role)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "You write short slogans.", reqs[0].Instructions)
}

func TestModelAgentHistoryWindow(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")
	agent, err := NewModelAgent("writer", llm, func(o *ModelAgentOptions) {
		o.MaxHistoryMessages = 2
	})
	require.NoError(t, err)

	history := []core.Message{
		core.NewUserMessage("one"),
		core.NewUserMessage("two"),
		core.NewUserMessage("three"),
	}
	_, err = collect(agent.Invoke(context.Background(), history))
	require.NoError(t, err)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2, "only the trailing window is sent")
	assert.Equal(t, "two", reqs[0].Messages[0].Text())
	assert.Equal(t, "three", reqs[0].Messages[1].Text())
}

func TestModelAgentStream(t *testing.T) {
	llm := model.NewMockModel("test-model", "mock")
	llm.AddResponse("go", "hello streaming world")

	agent, err := NewModelAgent("writer", llm)
	require.NoError(t, err)

	chunkCh, errCh := agent.InvokeStream(context.Background(), []core.Message{
		core.NewUserMessage("go"),
	})

	var chunks []core.Chunk
	for c := range chunkCh {
		chunks = append(chunks, c)
	}
	require.NoError(t, <-errCh)

	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	assert.Equal(t, "hello streaming world", sb.String())
	assert.True(t, chunks[len(chunks)-1].Final)
}

func TestModelAgentValidation(t *testing.T) {
	llm := model.NewMockModel("m", "mock")

	_, err := NewModelAgent("", llm)
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewModelAgent("writer", nil)
	require.ErrorAs(t, err, &cfgErr)
}

func TestFuncAgent(t *testing.T) {
	agent, err := NewFuncAgent("echo", "repeats the last message", func(_ context.Context, messages []core.Message) (string, error) {
		return "echo: " + messages[len(messages)-1].Text(), nil
	})
	require.NoError(t, err)

	msgs, err := collect(agent.Invoke(context.Background(), []core.Message{
		core.NewUserMessage("ping"),
	}))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "echo: ping", msgs[0].Text())
}

func TestFuncAgentError(t *testing.T) {
	boom := errors.New("no answer")
	agent, err := NewFuncAgent("broken", "always fails", func(context.Context, []core.Message) (string, error) {
		return "", boom
	})
	require.NoError(t, err)

	_, err = collect(agent.Invoke(context.Background(), nil))
	assert.ErrorIs(t, err, boom)
}
