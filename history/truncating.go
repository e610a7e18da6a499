package history

import (
	"github.com/roundtable-ai/roundtable/core"
)

// Truncating is a reducing ChatHistory that drops older messages once the
// transcript grows past targetCount+thresholdCount, keeping the most recent
// targetCount messages. The threshold provides hysteresis so reduction does
// not run on every append.
//
// Invariants:
//   - the most recent thresholdCount+targetCount messages are never dropped
//   - Reduce is idempotent: a history at or below target is left unchanged
//   - an optional leading system message survives every reduction
//   - the retained window never begins with an orphaned tool-result message
type Truncating struct {
	*InMemory

	targetCount    int
	thresholdCount int
	keepSystem     bool
}

// TruncatingOptions configure a Truncating history.
type TruncatingOptions struct {
	// ThresholdCount is the slack above TargetCount tolerated before a
	// reduction actually truncates. Zero means reduce as soon as the
	// transcript exceeds the target.
	ThresholdCount int

	// KeepSystemMessage preserves a leading system-role message across
	// reductions. Enabled by default.
	KeepSystemMessage bool

	// Seed pre-populates the transcript.
	Seed []core.Message
}

// NewTruncating constructs a truncating history retaining at most
// targetCount recent messages after a reduction.
func NewTruncating(targetCount int, optFns ...func(o *TruncatingOptions)) *Truncating {
	opts := TruncatingOptions{
		ThresholdCount:    0,
		KeepSystemMessage: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Truncating{
		InMemory:       NewInMemory(opts.Seed...),
		targetCount:    targetCount,
		thresholdCount: opts.ThresholdCount,
		keepSystem:     opts.KeepSystemMessage,
	}
}

// TargetCount returns the number of recent messages retained by a reduction.
func (h *Truncating) TargetCount() int { return h.targetCount }

// ThresholdCount returns the slack tolerated above the target.
func (h *Truncating) ThresholdCount() int { return h.thresholdCount }

// Reduce truncates the transcript to the most recent targetCount messages
// when it exceeds targetCount+thresholdCount, reporting whether anything
// changed. A leading system message is preserved when configured.
func (h *Truncating) Reduce() (bool, error) {
	msgs := h.Messages()

	var system *core.Message
	body := msgs
	if h.keepSystem && len(msgs) > 0 && msgs[0].Role == core.RoleSystem {
		system = &msgs[0]
		body = msgs[1:]
	}

	if len(body) <= h.targetCount+h.thresholdCount {
		return false, nil
	}

	start := len(body) - h.targetCount
	// Never start the retained window on a dangling tool result whose
	// originating function call was truncated away.
	for start < len(body) && body[start].Role == core.RoleTool {
		start++
	}

	reduced := make([]core.Message, 0, h.targetCount+1)
	if system != nil {
		reduced = append(reduced, *system)
	}
	reduced = append(reduced, body[start:]...)

	h.replace(reduced)

	return true, nil
}
