package history

import (
	"sync"

	"github.com/roundtable-ai/roundtable/core"
)

// InMemory is a volatile ChatHistory implementation storing messages in a
// process-local slice. It is safe for concurrent access and best suited for
// tests or single-process orchestrations. Returned slices are copies to
// prevent external mutation of internal state.
type InMemory struct {
	mu       sync.RWMutex
	messages []core.Message
}

// NewInMemory constructs an empty in-memory chat history, optionally seeded
// with initial messages (e.g. a system instruction).
func NewInMemory(seed ...core.Message) *InMemory {
	h := &InMemory{}
	h.messages = append(h.messages, seed...)
	return h
}

// Add appends messages to the transcript in call order.
func (h *InMemory) Add(messages ...core.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, messages...)
	return nil
}

// Messages returns a defensive copy of the transcript in append order.
func (h *InMemory) Messages() []core.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]core.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (h *InMemory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// replace swaps the backing slice. Internal helper used by reducers built on
// top of InMemory; caller supplies an already-copied slice.
func (h *InMemory) replace(messages []core.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = messages
}
