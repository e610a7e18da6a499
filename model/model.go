package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/roundtable-ai/roundtable/core"
)

// Request captures the normalized model input produced by a manager.
type Request struct {
	Instructions string         `json:"instructions"` // System instructions for the model
	Messages     []core.Message `json:"messages"`     // Transcript converted to provider messages
	JSONOnly     bool           `json:"json_only"`    // Constrain the response to a single JSON object
}

// Response is the completed model output.
type Response struct {
	Text string `json:"text"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name         string `json:"name"`
	Provider     string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsJSON bool   `json:"supports_json"`
}

// Model is the minimal interface required by model-driven managers to reach
// a decision. Implementations must respect context cancellation.
type Model interface {
	// Complete runs a single-shot completion for the request.
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses can be canned per trigger text or scripted in sequence; scripted
// responses take precedence.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	script    []string
	requests  []Request
}

// NewMockModel constructs a MockModel with JSON support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:         name,
			Provider:     provider,
			SupportsJSON: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion keyed by the text
// of the request's last message.
func (m *MockModel) AddResponse(trigger, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[trigger] = response
}

// Enqueue appends responses returned in order regardless of input.
func (m *MockModel) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
}

// Requests returns a copy of all requests seen so far, for assertions.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (Response, error) {
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return Response{Text: next}, nil
	}

	var trigger string
	if len(req.Messages) > 0 {
		trigger = req.Messages[len(req.Messages)-1].Text()
	}
	if resp, ok := m.responses[trigger]; ok {
		return Response{Text: resp}, nil
	}

	return Response{Text: fmt.Sprintf("Mock response to: %s", trigger)}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
