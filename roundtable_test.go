package roundtable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roundtable-ai/roundtable/core"
	"github.com/roundtable-ai/roundtable/internal/testutil"
	"github.com/roundtable-ai/roundtable/manager"
)

func TestInvokeSyncRoundRobin(t *testing.T) {
	writer := testutil.Say("Writer", "slogan v1", "slogan v2")
	reviewer := testutil.Say("Reviewer", "tighten it up")

	mgr := manager.NewRoundRobin(func(o *manager.RoundRobinOptions) {
		o.MaxRounds = 3
		o.ResultAuthor = "Writer"
	})

	rt, err := New(mgr, []core.Agent{writer, reviewer})
	require.NoError(t, err)
	defer func() { require.NoError(t, rt.Close(context.Background())) }()

	result, err := rt.InvokeSync(context.Background(), "write a slogan")
	require.NoError(t, err)
	assert.Equal(t, "slogan v2", result.Text())
	assert.Equal(t, "Writer", result.AuthorName)
}

func TestInvokeReturnsHandleImmediately(t *testing.T) {
	writer := testutil.Say("Writer", "done")
	mgr := manager.NewRoundRobin(func(o *manager.RoundRobinOptions) {
		o.MaxRounds = 1
		o.ResultAuthor = "Writer"
	})

	rt, err := New(mgr, []core.Agent{writer})
	require.NoError(t, err)
	defer func() { require.NoError(t, rt.Close(context.Background())) }()

	handle, err := rt.Invoke("go")
	require.NoError(t, err)

	result, err := handle.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", result.Text())
}

func TestNewPropagatesConfigErrors(t *testing.T) {
	_, err := New(nil, []core.Agent{testutil.Say("Writer", "hi")})
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestResponseCallbackObservesTurns(t *testing.T) {
	writer := testutil.Say("Writer", "one")
	mgr := manager.NewRoundRobin(func(o *manager.RoundRobinOptions) {
		o.MaxRounds = 2
		o.ResultAuthor = "Writer"
	})

	var authors []string
	rt, err := New(mgr, []core.Agent{writer}, func(o *Options) {
		o.AgentResponseCallback = func(msg core.Message) {
			authors = append(authors, msg.AuthorName)
		}
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, rt.Close(context.Background())) }()

	_, err = rt.InvokeSync(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Writer", "Writer"}, authors)
}
