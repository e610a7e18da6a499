package core

import "errors"

// ErrNoChunks is returned by FoldChunks when the chunk sequence is empty.
var ErrNoChunks = errors.New("cannot fold an empty chunk sequence")

// Chunk is a streaming-incremental message delta. Successive chunks combine
// associatively into one logical message: text concatenates in emission
// order, the first non-empty role and author win. Final marks the last chunk
// of a logical message.
type Chunk struct {
	Role       Role              `json:"role,omitempty"`
	AuthorName string            `json:"author_name,omitempty"`
	Text       string            `json:"text"`
	Final      bool              `json:"final,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// FoldChunks combines a chunk sequence into one logical message. The fold is
// pure: concatenation follows slice order and the first non-empty
// role/author is preserved. Metadata from later chunks fills keys not yet
// present. Returns ErrNoChunks for an empty input.
func FoldChunks(chunks []Chunk) (Message, error) {
	if len(chunks) == 0 {
		return Message{}, ErrNoChunks
	}

	var (
		role   Role
		author string
		text   string
		md     map[string]string
	)

	for _, c := range chunks {
		if role == "" {
			role = c.Role
		}
		if author == "" {
			author = c.AuthorName
		}
		text += c.Text
		for k, v := range c.Metadata {
			if md == nil {
				md = map[string]string{}
			}
			if _, exists := md[k]; !exists {
				md[k] = v
			}
		}
	}

	if role == "" {
		role = RoleAssistant
	}

	m := NewMessage(role, author)
	m.Parts = []Part{TextPart{Text: text}}
	m.Metadata = md

	return m, nil
}

// ChunksFromMessage splits a message's text into single-rune chunks, the last
// one marked final. Useful for tests and for adapting non-streaming agents to
// the streaming invocation path.
func ChunksFromMessage(m Message) []Chunk {
	runes := []rune(m.Text())
	if len(runes) == 0 {
		return []Chunk{{Role: m.Role, AuthorName: m.AuthorName, Final: true, Metadata: m.Metadata}}
	}
	chunks := make([]Chunk, 0, len(runes))
	for i, r := range runes {
		chunks = append(chunks, Chunk{
			Role:       m.Role,
			AuthorName: m.AuthorName,
			Text:       string(r),
			Final:      i == len(runes)-1,
			Metadata:   m.Metadata,
		})
	}
	return chunks
}
