package core

// ChatHistory is an ordered, append-only log of conversation messages. It is
// owned collectively by the orchestration, not by any single agent.
//
// Contract:
//   - Add appends messages in call order; appended messages are immutable
//   - Messages returns a defensive copy in append order
//   - Implementations used by a single orchestration are accessed from one
//     turn loop; safety for concurrent writers is the caller's concern when
//     a history instance is shared across orchestrations
type ChatHistory interface {
	Add(messages ...Message) error
	Messages() []Message
	Len() int
}

// ReducingHistory is a ChatHistory variant that compresses older messages
// while preserving recency, used to bound context size.
//
// Contract:
//   - Reduce never drops the most recent retention window of messages
//   - Reduce is idempotent: reducing an already-reduced history whose size
//     is at or below target changes nothing and reports false
type ReducingHistory interface {
	ChatHistory

	// Reduce compresses the history if it exceeds the implementation's
	// threshold, reporting whether anything changed.
	Reduce() (bool, error)
}
