package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("hello")

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "user", m.AuthorName)
	assert.Equal(t, "hello", m.Text())
	assert.False(t, m.Timestamp.IsZero())
}

func TestNewAssistantMessage(t *testing.T) {
	m := NewAssistantMessage("Writer", "a slogan")

	assert.Equal(t, RoleAssistant, m.Role)
	assert.Equal(t, "Writer", m.AuthorName)
	assert.Equal(t, "a slogan", m.Text())
}

func TestMessage_Text_ConcatenatesTextPartsOnly(t *testing.T) {
	m := NewMessage(RoleAssistant, "agent")
	m.Parts = []Part{
		TextPart{Text: "hello "},
		FunctionCallPart{FunctionCall: FunctionCall{Name: "lookup"}},
		TextPart{Text: "world"},
	}

	assert.Equal(t, "hello world", m.Text())
}

func TestMessage_IsEmpty(t *testing.T) {
	assert.True(t, NewMessage(RoleUser, "user").IsEmpty())
	assert.False(t, NewUserMessage("x").IsEmpty())
}

func TestMessage_Clone_Isolation(t *testing.T) {
	m := NewAssistantMessage("agent", "original")
	m.Metadata = map[string]string{"turn": "1"}

	c := m.Clone()
	c.Parts[0] = TextPart{Text: "mutated"}
	c.Metadata["turn"] = "2"

	assert.Equal(t, "original", m.Text())
	assert.Equal(t, "1", m.Metadata["turn"])
}

func TestMessage_WithMetadata_DoesNotMutateOriginal(t *testing.T) {
	m := NewUserMessage("task")

	tagged := m.WithMetadata("round", "3")

	require.NotNil(t, tagged.Metadata)
	assert.Equal(t, "3", tagged.Metadata["round"])
	assert.Nil(t, m.Metadata)
}

func TestMessage_GetFunctionCalls(t *testing.T) {
	m := NewFunctionCallMessage("agent", "search", `{"q":"go"}`)

	calls := m.GetFunctionCalls()

	require.Len(t, calls, 1)
	assert.Equal(t, "search", calls[0].Name)
	assert.Equal(t, `{"q":"go"}`, calls[0].Arguments)
}

func TestMessage_GetFunctionResponses(t *testing.T) {
	m := NewFunctionResponseMessage("agent", "call-1", "search", "ok", nil)

	responses := m.GetFunctionResponses()

	require.Len(t, responses, 1)
	assert.Equal(t, "call-1", responses[0].ID)
	assert.Equal(t, "ok", responses[0].Response)
	assert.Empty(t, responses[0].Error)
}

func TestNewFunctionResponseMessage_Error(t *testing.T) {
	m := NewFunctionResponseMessage("agent", "call-1", "search", nil, assert.AnError)

	responses := m.GetFunctionResponses()

	require.Len(t, responses, 1)
	assert.Equal(t, assert.AnError.Error(), responses[0].Error)
}
