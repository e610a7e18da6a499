package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/roundtable-ai/roundtable/core"
)

func addUserMessages(t *testing.T, h core.ChatHistory, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, h.Add(core.NewUserMessage(fmt.Sprintf("msg-%d", i))))
	}
}

func TestTruncating_NoReductionBelowThreshold(t *testing.T) {
	h := NewTruncating(5, func(o *TruncatingOptions) { o.ThresholdCount = 3 })
	addUserMessages(t, h, 8) // exactly target+threshold

	changed, err := h.Reduce()

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 8, h.Len())
}

func TestTruncating_ReducesToTarget(t *testing.T) {
	h := NewTruncating(5, func(o *TruncatingOptions) { o.ThresholdCount = 3 })
	addUserMessages(t, h, 9)

	changed, err := h.Reduce()

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 5, h.Len())
	assert.Equal(t, "msg-4", h.Messages()[0].Text())
	assert.Equal(t, "msg-8", h.Messages()[4].Text())
}

func TestTruncating_Idempotent(t *testing.T) {
	h := NewTruncating(4)
	addUserMessages(t, h, 10)

	changedFirst, err := h.Reduce()
	require.NoError(t, err)
	require.True(t, changedFirst)
	after := h.Messages()

	changedSecond, err := h.Reduce()
	require.NoError(t, err)
	assert.False(t, changedSecond)
	assert.Equal(t, after, h.Messages())
}

func TestTruncating_KeepsSystemMessage(t *testing.T) {
	h := NewTruncating(3, func(o *TruncatingOptions) {
		o.Seed = []core.Message{core.NewSystemMessage("stay concise")}
	})
	addUserMessages(t, h, 7)

	changed, err := h.Reduce()

	require.NoError(t, err)
	require.True(t, changed)
	msgs := h.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, core.RoleSystem, msgs[0].Role)
	assert.Equal(t, "stay concise", msgs[0].Text())
}

func TestTruncating_WindowNeverStartsWithToolResult(t *testing.T) {
	h := NewTruncating(3, func(o *TruncatingOptions) { o.KeepSystemMessage = false })
	require.NoError(t, h.Add(
		core.NewUserMessage("q"),
		core.NewFunctionCallMessage("agent", "lookup", "{}"),
		core.NewFunctionResponseMessage("agent", "c1", "lookup", "r", nil),
		core.NewAssistantMessage("agent", "answer"),
		core.NewUserMessage("followup"),
	))

	changed, err := h.Reduce()

	require.NoError(t, err)
	require.True(t, changed)
	msgs := h.Messages()
	require.NotEmpty(t, msgs)
	assert.NotEqual(t, core.RoleTool, msgs[0].Role)
}

func TestTruncating_RetentionFloorProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		target := rapid.IntRange(1, 10).Draw(t, "target")
		threshold := rapid.IntRange(0, 10).Draw(t, "threshold")
		total := rapid.IntRange(0, 60).Draw(t, "total")

		h := NewTruncating(target, func(o *TruncatingOptions) {
			o.ThresholdCount = threshold
			o.KeepSystemMessage = false
		})
		for i := 0; i < total; i++ {
			if err := h.Add(core.NewUserMessage(fmt.Sprintf("m-%d", i))); err != nil {
				t.Fatalf("add: %v", err)
			}
		}
		before := h.Messages()

		if _, err := h.Reduce(); err != nil {
			t.Fatalf("reduce: %v", err)
		}
		after := h.Messages()

		if len(after) < min(target, total) {
			t.Fatalf("kept %d messages, want at least %d", len(after), min(target, total))
		}
		if len(before) <= target+threshold && len(after) != len(before) {
			t.Fatalf("reduced below threshold: %d -> %d", len(before), len(after))
		}

		// What survives is exactly a suffix of the original transcript.
		suffix := before[len(before)-len(after):]
		for i := range after {
			if after[i].ID != suffix[i].ID {
				t.Fatalf("message %d: kept %q, want most recent suffix %q", i, after[i].Text(), suffix[i].Text())
			}
		}

		// A second reduction must be a no-op.
		changed, err := h.Reduce()
		if err != nil {
			t.Fatalf("second reduce: %v", err)
		}
		if changed {
			t.Fatal("second reduction changed an already-reduced history")
		}
	})
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
