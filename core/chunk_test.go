package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldChunks_ConcatenatesInOrder(t *testing.T) {
	chunks := []Chunk{
		{Role: RoleAssistant, AuthorName: "Writer", Text: "Hel"},
		{Text: "lo"},
		{Text: " world", Final: true},
	}

	m, err := FoldChunks(chunks)

	require.NoError(t, err)
	assert.Equal(t, "Hello world", m.Text())
	assert.Equal(t, RoleAssistant, m.Role)
	assert.Equal(t, "Writer", m.AuthorName)
}

func TestFoldChunks_FirstNonEmptyRoleAndAuthorWin(t *testing.T) {
	chunks := []Chunk{
		{Text: "a"},
		{Role: RoleUser, AuthorName: "first", Text: "b"},
		{Role: RoleAssistant, AuthorName: "second", Text: "c"},
	}

	m, err := FoldChunks(chunks)

	require.NoError(t, err)
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "first", m.AuthorName)
	assert.Equal(t, "abc", m.Text())
}

func TestFoldChunks_Empty(t *testing.T) {
	_, err := FoldChunks(nil)
	assert.ErrorIs(t, err, ErrNoChunks)
}

func TestFoldChunks_DefaultsToAssistantRole(t *testing.T) {
	m, err := FoldChunks([]Chunk{{Text: "x"}})

	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, m.Role)
}

func TestFoldChunks_MetadataFirstKeyWins(t *testing.T) {
	chunks := []Chunk{
		{Text: "a", Metadata: map[string]string{"k": "v1"}},
		{Text: "b", Metadata: map[string]string{"k": "v2", "extra": "e"}},
	}

	m, err := FoldChunks(chunks)

	require.NoError(t, err)
	assert.Equal(t, "v1", m.Metadata["k"])
	assert.Equal(t, "e", m.Metadata["extra"])
}

func TestChunksFromMessage_RoundTrip(t *testing.T) {
	original := NewAssistantMessage("Writer", "Hello world")

	chunks := ChunksFromMessage(original)
	require.NotEmpty(t, chunks)
	assert.True(t, chunks[len(chunks)-1].Final)

	folded, err := FoldChunks(chunks)
	require.NoError(t, err)
	assert.Equal(t, original.Text(), folded.Text())
	assert.Equal(t, original.AuthorName, folded.AuthorName)
}
