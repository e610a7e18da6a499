package manager

import (
	"context"
	"time"

	"github.com/roundtable-ai/roundtable/core"
)

// HumanResponseFunc supplies human input for a manager that requested it.
// Implementations may read the transcript they are handed but must not
// mutate it.
type HumanResponseFunc func(ctx context.Context, transcript []core.Message) (core.Message, error)

// StaticHumanResponse returns a HumanResponseFunc that always answers with
// the given text. Useful for tests and scripted demos.
func StaticHumanResponse(text string) HumanResponseFunc {
	return func(context.Context, []core.Message) (core.Message, error) {
		return core.NewUserMessage(text), nil
	}
}

// AwaitSignal returns a HumanResponseFunc that blocks until a message
// arrives on signal, the timeout expires, or the context is cancelled.
//
// On expiry it returns an empty sentinel user message rather than an error,
// so the turn loop keeps moving; the manager's termination policy decides
// what empty input means. A non-positive timeout polls the signal once and
// falls through to the sentinel immediately, never hanging. Context
// cancellation is surfaced as an error since the orchestration is ending
// anyway.
//
// This is the building block for server-side managers that correlate input
// by an external id (e.g. a plan id): the server resolves the id to a signal
// channel and publishes the human's message on it.
func AwaitSignal(signal <-chan core.Message, timeout time.Duration) HumanResponseFunc {
	return func(ctx context.Context, _ []core.Message) (core.Message, error) {
		if timeout <= 0 {
			select {
			case m := <-signal:
				return m, nil
			case <-ctx.Done():
				return core.Message{}, ctx.Err()
			default:
				return core.NewMessage(core.RoleUser, "user"), nil
			}
		}

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case m := <-signal:
			return m, nil
		case <-timer.C:
			return core.NewMessage(core.RoleUser, "user"), nil
		case <-ctx.Done():
			return core.Message{}, ctx.Err()
		}
	}
}
