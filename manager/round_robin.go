package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/roundtable-ai/roundtable/core"
)

// RoundRobin selects agents in deterministic rotation order, skipping no
// one. With a single participant it trivially reselects that participant;
// with more than one, no agent is ever selected twice in a row.
//
// FilterResults returns the last message authored by the configured result
// author. When no result author is configured it falls back to the last
// assistant message in the transcript; set one explicitly whenever a
// specific participant owns the deliverable.
type RoundRobin struct {
	Base

	resultAuthor string

	mu    sync.Mutex
	index int
}

// RoundRobinOptions configure a RoundRobin manager.
type RoundRobinOptions struct {
	// MaxRounds caps the number of completed agent turns. Zero means no cap.
	MaxRounds int

	// ResultAuthor names the participant whose last message becomes the
	// orchestration result. Empty selects the transcript's last assistant
	// message instead.
	ResultAuthor string

	// HumanResponse supplies human input when a subclassed policy requests it.
	HumanResponse HumanResponseFunc
}

// NewRoundRobin constructs a round-robin manager.
func NewRoundRobin(optFns ...func(o *RoundRobinOptions)) *RoundRobin {
	opts := RoundRobinOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &RoundRobin{
		Base: NewBase(func(o *BaseOptions) {
			o.MaxRounds = opts.MaxRounds
			o.HumanResponse = opts.HumanResponse
		}),
		resultAuthor: opts.ResultAuthor,
	}
}

// SelectNextAgent advances the stored index modulo the participant count.
// Selection depends only on how many agents have already been selected, so
// re-evaluating each round keeps rotation fair regardless of interleaved
// human-input turns.
func (m *RoundRobin) SelectNextAgent(_ context.Context, _ []core.Message, participants []Participant) (StringResult, error) {
	if len(participants) == 0 {
		return StringResult{}, core.NewConfigError("Members", "cannot select an agent from an empty participant list")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := participants[m.index%len(participants)]
	m.index++

	return StringResult{
		Value:  p.Name,
		Reason: fmt.Sprintf("round robin selected participant %d of %d", (m.index-1)%len(participants)+1, len(participants)),
	}, nil
}

// FilterResults returns the last message from the configured result author,
// or the last assistant message when no author is configured. Returns a nil
// value with a reason when no matching message exists.
func (m *RoundRobin) FilterResults(_ context.Context, transcript []core.Message) (MessageResult, error) {
	for i := len(transcript) - 1; i >= 0; i-- {
		msg := transcript[i]
		if m.resultAuthor != "" {
			if msg.AuthorName == m.resultAuthor {
				return MessageResult{Value: &msg, Reason: fmt.Sprintf("last message authored by %s", m.resultAuthor)}, nil
			}
			continue
		}
		if msg.Role == core.RoleAssistant {
			return MessageResult{Value: &msg, Reason: "no result author configured; last assistant message"}, nil
		}
	}

	reason := "no assistant message found in transcript"
	if m.resultAuthor != "" {
		reason = fmt.Sprintf("no message authored by %s found in transcript", m.resultAuthor)
	}
	return MessageResult{Value: nil, Reason: reason}, nil
}
