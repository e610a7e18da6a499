package history

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/roundtable-ai/roundtable/core"
)

// TokenCounter estimates the token cost of a text fragment.
type TokenCounter interface {
	CountTokens(text string) int
}

// TokenCounterFunc adapts a plain function to the TokenCounter interface.
type TokenCounterFunc func(text string) int

// CountTokens implements TokenCounter.
func (f TokenCounterFunc) CountTokens(text string) int { return f(text) }

// tiktokenCounter counts tokens with a tiktoken encoding.
type tiktokenCounter struct{ enc *tiktoken.Tiktoken }

func (c tiktokenCounter) CountTokens(text string) int { return len(c.enc.Encode(text, nil, nil)) }

// estimateCounter is the fallback heuristic (~4 chars per token) used when no
// encoding is available, matching common provider guidance.
type estimateCounter struct{}

func (estimateCounter) CountTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// TokenBudget is a reducing ChatHistory bounded by an estimated token
// budget instead of a message count. When the transcript's estimated size
// exceeds the budget, Reduce drops the oldest messages until the remainder
// fits, always retaining at least keepLast recent messages and an optional
// leading system message.
type TokenBudget struct {
	*InMemory

	maxTokens  int
	keepLast   int
	keepSystem bool
	counter    TokenCounter
}

// TokenBudgetOptions configure a TokenBudget history.
type TokenBudgetOptions struct {
	// KeepLast is the minimum number of recent messages retained even when
	// they exceed the budget on their own. Defaults to 1.
	KeepLast int

	// KeepSystemMessage preserves a leading system-role message across
	// reductions. Enabled by default.
	KeepSystemMessage bool

	// Model selects the tiktoken encoding used for counting. Ignored when
	// Counter is set. Defaults to gpt-4o.
	Model string

	// Counter overrides token counting entirely (e.g. for tests or offline
	// environments). When nil and the encoding cannot be loaded, a ~4 chars
	// per token estimate is used.
	Counter TokenCounter

	// Seed pre-populates the transcript.
	Seed []core.Message
}

// NewTokenBudget constructs a token-budget history bounded by maxTokens.
func NewTokenBudget(maxTokens int, optFns ...func(o *TokenBudgetOptions)) *TokenBudget {
	opts := TokenBudgetOptions{
		KeepLast:          1,
		KeepSystemMessage: true,
		Model:             "gpt-4o",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	counter := opts.Counter
	if counter == nil {
		if enc, err := tiktoken.EncodingForModel(opts.Model); err == nil {
			counter = tiktokenCounter{enc: enc}
		} else {
			counter = estimateCounter{}
		}
	}

	return &TokenBudget{
		InMemory:   NewInMemory(opts.Seed...),
		maxTokens:  maxTokens,
		keepLast:   opts.KeepLast,
		keepSystem: opts.KeepSystemMessage,
		counter:    counter,
	}
}

// messageTokens estimates tokens for one message including author name,
// structured parts and a small per-message overhead.
func (h *TokenBudget) messageTokens(m core.Message) int {
	tokens := h.counter.CountTokens(m.Text())
	if m.AuthorName != "" {
		tokens += h.counter.CountTokens(m.AuthorName)
	}
	for _, fc := range m.GetFunctionCalls() {
		tokens += h.counter.CountTokens(fc.Name) + len(fc.Arguments)/4
	}
	return tokens + 4
}

// EstimateTokens returns the estimated token total across the transcript.
func (h *TokenBudget) EstimateTokens() int {
	total := 0
	for _, m := range h.Messages() {
		total += h.messageTokens(m)
	}
	return total
}

// Reduce drops the oldest messages until the estimated token total fits the
// budget, reporting whether anything changed. At least keepLast recent
// messages and an optional leading system message always survive.
func (h *TokenBudget) Reduce() (bool, error) {
	msgs := h.Messages()

	var system *core.Message
	systemTokens := 0
	body := msgs
	if h.keepSystem && len(msgs) > 0 && msgs[0].Role == core.RoleSystem {
		system = &msgs[0]
		systemTokens = h.messageTokens(*system)
		body = msgs[1:]
	}

	total := systemTokens
	for _, m := range body {
		total += h.messageTokens(m)
	}
	if total <= h.maxTokens {
		return false, nil
	}

	// Walk backwards accumulating the newest messages that fit.
	budget := h.maxTokens - systemTokens
	start := len(body)
	used := 0
	for i := len(body) - 1; i >= 0; i-- {
		cost := h.messageTokens(body[i])
		if used+cost > budget && len(body)-i > h.keepLast {
			break
		}
		used += cost
		start = i
	}

	if start == 0 {
		return false, nil
	}

	reduced := make([]core.Message, 0, len(body)-start+1)
	if system != nil {
		reduced = append(reduced, *system)
	}
	reduced = append(reduced, body[start:]...)

	h.replace(reduced)

	return true, nil
}
