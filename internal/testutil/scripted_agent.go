package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/roundtable-ai/roundtable/core"
)

// ScriptedAgent is a core.Agent that plays back canned responses in order.
// Each invocation consumes the next entry from the script; once the script is
// exhausted the agent repeats its last entry. An entry with a non-nil error
// makes the invocation fail instead of producing messages.
type ScriptedAgent struct {
	name        string
	description string

	mu     sync.Mutex
	script []ScriptEntry
	next   int
	calls  [][]core.Message
}

// ScriptEntry is a single invocation outcome for a ScriptedAgent.
type ScriptEntry struct {
	Messages []core.Message
	Err      error
}

// NewScriptedAgent creates an agent that responds with each entry in turn.
func NewScriptedAgent(name, description string, script ...ScriptEntry) *ScriptedAgent {
	return &ScriptedAgent{name: name, description: description, script: script}
}

// Say is a convenience constructor: the agent replies with one assistant text
// message per invocation, cycling through the given texts.
func Say(name string, texts ...string) *ScriptedAgent {
	script := make([]ScriptEntry, 0, len(texts))
	for _, t := range texts {
		script = append(script, ScriptEntry{
			Messages: []core.Message{core.NewAssistantMessage(name, t)},
		})
	}
	return NewScriptedAgent(name, "scripted test agent", script...)
}

func (a *ScriptedAgent) Name() string        { return a.name }
func (a *ScriptedAgent) Description() string { return a.description }

// Calls returns the inputs the agent has been invoked with, in order.
func (a *ScriptedAgent) Calls() [][]core.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([][]core.Message, len(a.calls))
	copy(out, a.calls)
	return out
}

// CallCount returns the number of times the agent has been invoked.
func (a *ScriptedAgent) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

// take records the invocation input and returns the next script entry.
// Returned messages carry fresh IDs so replayed entries are distinct.
func (a *ScriptedAgent) take(input []core.Message) ScriptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := make([]core.Message, len(input))
	copy(snapshot, input)
	a.calls = append(a.calls, snapshot)

	if len(a.script) == 0 {
		return ScriptEntry{}
	}
	entry := a.script[a.next]
	if a.next < len(a.script)-1 {
		a.next++
	}

	out := ScriptEntry{Err: entry.Err, Messages: make([]core.Message, len(entry.Messages))}
	for i, msg := range entry.Messages {
		clone := msg.Clone()
		clone.ID = core.NewID()
		out.Messages[i] = clone
	}
	return out
}

// Invoke plays the next script entry.
func (a *ScriptedAgent) Invoke(ctx context.Context, messages []core.Message) (<-chan core.Message, <-chan error) {
	msgCh := make(chan core.Message, 1)
	errCh := make(chan error, 1)

	entry := a.take(messages)

	go func() {
		defer close(msgCh)
		defer close(errCh)

		if entry.Err != nil {
			errCh <- entry.Err
			return
		}
		for _, msg := range entry.Messages {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case msgCh <- msg:
			}
		}
	}()

	return msgCh, errCh
}

// InvokeStream plays the next script entry one word at a time.
func (a *ScriptedAgent) InvokeStream(ctx context.Context, messages []core.Message) (<-chan core.Chunk, <-chan error) {
	chunkCh := make(chan core.Chunk, 1)
	errCh := make(chan error, 1)

	entry := a.take(messages)

	go func() {
		defer close(chunkCh)
		defer close(errCh)

		if entry.Err != nil {
			errCh <- entry.Err
			return
		}
		for _, msg := range entry.Messages {
			words := strings.Fields(msg.Text())
			for i, word := range words {
				if i > 0 {
					word = " " + word
				}
				chunk := core.Chunk{
					Role:       msg.Role,
					AuthorName: msg.AuthorName,
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
		}
	}()

	return chunkCh, errCh
}
