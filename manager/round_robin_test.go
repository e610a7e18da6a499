package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/roundtable-ai/roundtable/core"
)

func participants(names ...string) []Participant {
	out := make([]Participant, len(names))
	for i, n := range names {
		out[i] = Participant{Name: n, Description: "agent " + n}
	}
	return out
}

func TestRoundRobin_RotatesInOrder(t *testing.T) {
	m := NewRoundRobin()
	ctx := context.Background()
	ps := participants("a", "b", "c")

	var got []string
	for i := 0; i < 7; i++ {
		res, err := m.SelectNextAgent(ctx, nil, ps)
		require.NoError(t, err)
		got = append(got, res.Value)
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestRoundRobin_SingleParticipantReselects(t *testing.T) {
	m := NewRoundRobin()
	ctx := context.Background()
	ps := participants("solo")

	for i := 0; i < 3; i++ {
		res, err := m.SelectNextAgent(ctx, nil, ps)
		require.NoError(t, err)
		assert.Equal(t, "solo", res.Value)
	}
}

func TestRoundRobin_EmptyParticipants(t *testing.T) {
	m := NewRoundRobin()

	_, err := m.SelectNextAgent(context.Background(), nil, nil)

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRoundRobin_FilterResults_ConfiguredAuthor(t *testing.T) {
	m := NewRoundRobin(func(o *RoundRobinOptions) { o.ResultAuthor = "Writer" })
	transcript := []core.Message{
		core.NewUserMessage("write a slogan"),
		core.NewAssistantMessage("Writer", "draft one"),
		core.NewAssistantMessage("Reviewer", "needs work"),
		core.NewAssistantMessage("Writer", "draft two"),
		core.NewAssistantMessage("Reviewer", "ship it"),
	}

	res, err := m.FilterResults(context.Background(), transcript)

	require.NoError(t, err)
	require.NotNil(t, res.Value)
	assert.Equal(t, "draft two", res.Value.Text())
}

func TestRoundRobin_FilterResults_NoAuthorConfigured(t *testing.T) {
	m := NewRoundRobin()
	transcript := []core.Message{
		core.NewUserMessage("task"),
		core.NewAssistantMessage("a", "first"),
		core.NewAssistantMessage("b", "last"),
	}

	res, err := m.FilterResults(context.Background(), transcript)

	require.NoError(t, err)
	require.NotNil(t, res.Value)
	assert.Equal(t, "last", res.Value.Text())
}

func TestRoundRobin_FilterResults_NoMatch(t *testing.T) {
	m := NewRoundRobin(func(o *RoundRobinOptions) { o.ResultAuthor = "Writer" })

	res, err := m.FilterResults(context.Background(), []core.Message{core.NewUserMessage("task")})

	require.NoError(t, err)
	assert.Nil(t, res.Value)
	assert.Contains(t, res.Reason, "Writer")
}

// Fairness: for N agents and R selections, every agent is selected either
// floor(R/N) or ceil(R/N) times, and never twice in a row when N > 1.
func TestRoundRobin_FairnessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "participants")
		r := rapid.IntRange(1, 100).Draw(t, "rounds")

		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		ps := participants(names...)

		m := NewRoundRobin()
		counts := map[string]int{}
		prev := ""
		for i := 0; i < r; i++ {
			res, err := m.SelectNextAgent(context.Background(), nil, ps)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if n > 1 && res.Value == prev {
				t.Fatalf("agent %q selected twice in a row with %d participants", res.Value, n)
			}
			prev = res.Value
			counts[res.Value]++
		}

		floor, ceil := r/n, (r+n-1)/n
		for _, name := range names {
			c := counts[name]
			if c != floor && c != ceil {
				t.Fatalf("agent %q selected %d times, want %d or %d", name, c, floor, ceil)
			}
		}
	})
}
