package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/model"
)

// ModelSelector is a model-driven manager: a chat model reads the transcript
// and decides which participant speaks next, whether the conversation is
// complete, and how to phrase the final result. Decisions are requested as
// JSON objects and parsed strictly; a selection naming an unknown
// participant fails the round with a *core.SelectionError instead of falling
// back to a default agent.
//
// The max-rounds cap from Base still applies and is checked before the model
// is consulted.
type ModelSelector struct {
	Base

	model     model.Model
	name      string
	topic     string
	askToStop bool
}

// ModelSelectorOptions configure a ModelSelector manager.
type ModelSelectorOptions struct {
	// MaxRounds caps the number of completed agent turns. Zero means no cap.
	MaxRounds int

	// Name is the author name stamped on the manager's own messages (the
	// filtered result). Defaults to "manager".
	Name string

	// Topic describes the conversation's goal to the model. Optional.
	Topic string

	// AskModelToTerminate additionally consults the model on termination
	// after the max-rounds check. Enabled by default.
	AskModelToTerminate bool

	// HumanResponse supplies human input when a subclassed policy requests it.
	HumanResponse HumanResponseFunc
}

// NewModelSelector constructs a model-driven manager around m.
func NewModelSelector(m model.Model, optFns ...func(o *ModelSelectorOptions)) *ModelSelector {
	opts := ModelSelectorOptions{
		Name:                "manager",
		AskModelToTerminate: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ModelSelector{
		Base: NewBase(func(o *BaseOptions) {
			o.MaxRounds = opts.MaxRounds
			o.HumanResponse = opts.HumanResponse
		}),
		model:     m,
		name:      opts.Name,
		topic:     opts.Topic,
		askToStop: opts.AskModelToTerminate,
	}
}

// requireModel guards every model-backed operation against a nil model and
// against models that cannot be constrained to JSON output.
func (m *ModelSelector) requireModel() error {
	if m.model == nil {
		return core.NewConfigError("Model", "model-driven manager requires a model")
	}
	if info := m.model.Info(); !info.SupportsJSON {
		return core.NewConfigError("Model", fmt.Sprintf("model %q cannot produce the structured JSON output this manager needs", info.Name))
	}
	return nil
}

// selection is the JSON shape the model must return for SelectNextAgent.
type selection struct {
	Agent  string `json:"agent"`
	Reason string `json:"reason"`
}

// termination is the JSON shape the model must return for ShouldTerminate.
type termination struct {
	Terminate bool   `json:"terminate"`
	Reason    string `json:"reason"`
}

// finalResult is the JSON shape the model must return for FilterResults.
type finalResult struct {
	Result string `json:"result"`
	Reason string `json:"reason"`
}

// SelectNextAgent asks the model for the next speaker and validates the
// answer against the participant list.
func (m *ModelSelector) SelectNextAgent(ctx context.Context, transcript []core.Message, participants []Participant) (StringResult, error) {
	if err := m.requireModel(); err != nil {
		return StringResult{}, err
	}
	if len(participants) == 0 {
		return StringResult{}, core.NewConfigError("Members", "cannot select an agent from an empty participant list")
	}

	var sb strings.Builder
	sb.WriteString("You coordinate a conversation between the following participants:\n")
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		names = append(names, p.Name)
		fmt.Fprintf(&sb, "- %s: %s\n", p.Name, p.Description)
	}
	if m.topic != "" {
		fmt.Fprintf(&sb, "The goal of the conversation: %s\n", m.topic)
	}
	sb.WriteString("Read the conversation and decide which participant should speak next. ")
	sb.WriteString(`Respond with a JSON object of the form {"agent": "<participant name>", "reason": "<why>"}.`)

	resp, err := m.model.Complete(ctx, model.Request{
		Instructions: sb.String(),
		Messages:     transcript,
		JSONOnly:     true,
	})
	if err != nil {
		return StringResult{}, fmt.Errorf("selection model call failed: %w", err)
	}

	var sel selection
	if err := json.Unmarshal([]byte(resp.Text), &sel); err != nil {
		return StringResult{}, fmt.Errorf("selection response is not the expected JSON object: %w", err)
	}

	for _, p := range participants {
		if p.Name == sel.Agent {
			return StringResult{Value: sel.Agent, Reason: sel.Reason}, nil
		}
	}

	return StringResult{}, &core.SelectionError{Selected: sel.Agent, Participants: names}
}

// ShouldTerminate checks the max-rounds cap first, then optionally asks the
// model whether the conversation has reached its goal.
func (m *ModelSelector) ShouldTerminate(ctx context.Context, transcript []core.Message) (BoolResult, error) {
	base, err := m.Base.ShouldTerminate(ctx, transcript)
	if err != nil || base.Value {
		return base, err
	}
	if !m.askToStop {
		return base, nil
	}
	if err := m.requireModel(); err != nil {
		return BoolResult{}, err
	}
	if len(transcript) == 0 {
		return BoolResult{Value: false, Reason: "conversation has not started"}, nil
	}

	instructions := "You supervise a multi-participant conversation."
	if m.topic != "" {
		instructions += fmt.Sprintf(" The goal of the conversation: %s.", m.topic)
	}
	instructions += ` Decide whether the conversation is complete. Respond with a JSON object of the form {"terminate": <true|false>, "reason": "<why>"}.`

	resp, err := m.model.Complete(ctx, model.Request{
		Instructions: instructions,
		Messages:     transcript,
		JSONOnly:     true,
	})
	if err != nil {
		return BoolResult{}, fmt.Errorf("termination model call failed: %w", err)
	}

	var term termination
	if err := json.Unmarshal([]byte(resp.Text), &term); err != nil {
		return BoolResult{}, fmt.Errorf("termination response is not the expected JSON object: %w", err)
	}

	return BoolResult{Value: term.Terminate, Reason: term.Reason}, nil
}

// FilterResults asks the model to reduce the transcript to the final
// deliverable, returned as a message authored by the manager.
func (m *ModelSelector) FilterResults(ctx context.Context, transcript []core.Message) (MessageResult, error) {
	if err := m.requireModel(); err != nil {
		return MessageResult{}, err
	}
	if len(transcript) == 0 {
		return MessageResult{Value: nil, Reason: "transcript is empty"}, nil
	}

	instructions := "You supervise a multi-participant conversation that has ended."
	if m.topic != "" {
		instructions += fmt.Sprintf(" The goal of the conversation: %s.", m.topic)
	}
	instructions += ` Extract the conversation's final deliverable. Respond with a JSON object of the form {"result": "<the deliverable>", "reason": "<why>"}.`

	resp, err := m.model.Complete(ctx, model.Request{
		Instructions: instructions,
		Messages:     transcript,
		JSONOnly:     true,
	})
	if err != nil {
		return MessageResult{}, fmt.Errorf("result-filter model call failed: %w", err)
	}

	var fr finalResult
	if err := json.Unmarshal([]byte(resp.Text), &fr); err != nil {
		return MessageResult{}, fmt.Errorf("result-filter response is not the expected JSON object: %w", err)
	}

	msg := core.NewAssistantMessage(m.name, fr.Result)
	return MessageResult{Value: &msg, Reason: fr.Reason}, nil
}
