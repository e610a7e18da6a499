package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the conversational role of a message.
type Role string

// Conversation roles recognized by the orchestration core.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is the primary unit of communication between agents, the
// orchestration and external clients. Once appended to a transcript it must
// be treated as immutable. It captures:
//   - Correlation (ID)
//   - Authorship (Role, AuthorName)
//   - Conversational content (ordered heterogeneous Parts)
//   - Free-form Metadata (e.g. turn number, classification tag)
//   - High precision UTC timestamp
//
// AuthorName carries the agent name for assistant messages and is empty (or
// "user") for human input. Ordering of messages in a transcript is the
// conversation order.
type Message struct {
	ID         string            `json:"id"`
	Role       Role              `json:"role"`
	AuthorName string            `json:"author_name,omitempty"`
	Parts      []Part            `json:"parts"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewMessage creates a bare message with the given role and author.
// Prefer the helper constructors for common semantic categories.
func NewMessage(role Role, author string) Message {
	return Message{
		ID:         NewID(),
		Role:       role,
		AuthorName: author,
		Timestamp:  time.Now().UTC(),
	}
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	m := NewMessage(RoleUser, "user")
	m.Parts = []Part{TextPart{Text: text}}
	return m
}

// NewAssistantMessage creates an assistant text message authored by the named agent.
func NewAssistantMessage(author, text string) Message {
	m := NewMessage(RoleAssistant, author)
	m.Parts = []Part{TextPart{Text: text}}
	return m
}

// NewSystemMessage creates a system instruction message.
func NewSystemMessage(text string) Message {
	m := NewMessage(RoleSystem, "")
	m.Parts = []Part{TextPart{Text: text}}
	return m
}

// NewFunctionCallMessage represents an agent requesting execution of a named function/tool.
func NewFunctionCallMessage(author, functionName, args string) Message {
	m := NewMessage(RoleAssistant, author)
	m.Parts = []Part{FunctionCallPart{FunctionCall: FunctionCall{Name: functionName, Arguments: args}}}
	return m
}

// NewFunctionResponseMessage records the completion result (or error) of a
// previously emitted function call. If err is non-nil its message is copied
// into the response's Error field.
func NewFunctionResponseMessage(author, id, functionName string, result any, err error) Message {
	m := NewMessage(RoleTool, author)
	fr := FunctionResponse{ID: id, Name: functionName, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	m.Parts = []Part{FunctionResponsePart{FunctionResponse: fr}}
	return m
}

// NewID generates a new unique identifier for messages and invocations.
func NewID() string { return uuid.NewString() }

// Text concatenates all text parts of the message in order.
func (m Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

// IsEmpty reports whether the message carries no content parts. Empty
// messages are used as sentinels, e.g. for expired human-input waits.
func (m Message) IsEmpty() bool { return len(m.Parts) == 0 }

// WithMetadata returns a copy of the message with the key/value pair added.
// The original message is not mutated.
func (m Message) WithMetadata(key, value string) Message {
	c := m.Clone()
	if c.Metadata == nil {
		c.Metadata = map[string]string{}
	}
	c.Metadata[key] = value
	return c
}

// Clone returns a deep copy of the message safe for independent mutation.
func (m Message) Clone() Message {
	c := m
	c.Parts = make([]Part, len(m.Parts))
	copy(c.Parts, m.Parts)
	if m.Metadata != nil {
		c.Metadata = make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// GetFunctionCalls returns any FunctionCall parts contained within the
// message preserving their original order.
func (m Message) GetFunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range m.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// GetFunctionResponses returns any FunctionResponse parts contained within
// the message preserving their original order.
func (m Message) GetFunctionResponses() []FunctionResponse {
	var responses []FunctionResponse
	for _, p := range m.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}
