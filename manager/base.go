package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/roundtable-ai/roundtable/core"
)

// Base bundles the round bookkeeping and default policies shared by all
// managers. Embed it in concrete managers and override the operations whose
// behavior differs; overrides of ShouldTerminate must consult the base
// decision first and OR their own condition on top.
//
// Defaults:
//   - ShouldRequestUserInput: never
//   - GetHumanResponse: delegates to the configured HumanResponseFunc,
//     failing with a configuration error when absent
//   - ShouldTerminate: true once CurrentRound reaches MaxRounds (if set)
type Base struct {
	maxRounds     int
	humanResponse HumanResponseFunc

	mu    sync.Mutex
	round int
}

// BaseOptions configure a Base manager.
type BaseOptions struct {
	// MaxRounds caps the number of completed agent turns. Zero means no cap.
	MaxRounds int

	// HumanResponse supplies human input when a manager requests it.
	HumanResponse HumanResponseFunc
}

// NewBase constructs the shared manager bookkeeping.
func NewBase(optFns ...func(o *BaseOptions)) Base {
	opts := BaseOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return Base{maxRounds: opts.MaxRounds, humanResponse: opts.HumanResponse}
}

// MaxRounds returns the configured round cap (zero when uncapped).
func (b *Base) MaxRounds() int { return b.maxRounds }

// CurrentRound returns the number of completed agent turns.
func (b *Base) CurrentRound() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.round
}

// CompleteRound records the completion of one agent turn. Human-input turns
// must not be counted; the orchestration only calls this after agent turns.
func (b *Base) CompleteRound() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.round++
}

// ShouldRequestUserInput implements the default policy: never ask.
func (b *Base) ShouldRequestUserInput(_ context.Context, _ []core.Message) (BoolResult, error) {
	return BoolResult{Value: false, Reason: "default policy never requests user input"}, nil
}

// GetHumanResponse invokes the configured human-response callback. A missing
// callback is a configuration error: a manager that answers true to
// ShouldRequestUserInput must be given a way to obtain the input.
func (b *Base) GetHumanResponse(ctx context.Context, transcript []core.Message) (core.Message, error) {
	if b.humanResponse == nil {
		return core.Message{}, core.NewConfigError("HumanResponse", "user input was requested but no human response function is configured")
	}
	return b.humanResponse(ctx, transcript)
}

// ShouldTerminate implements the max-rounds cap. Managers overriding this
// must call it first and OR their own condition on top.
func (b *Base) ShouldTerminate(_ context.Context, _ []core.Message) (BoolResult, error) {
	if b.maxRounds > 0 && b.CurrentRound() >= b.maxRounds {
		return BoolResult{
			Value:  true,
			Reason: fmt.Sprintf("reached the maximum number of rounds (%d)", b.maxRounds),
		}, nil
	}
	return BoolResult{Value: false, Reason: "maximum number of rounds not reached"}, nil
}
