// Package core provides the foundational domain types and interfaces used by
// Roundtable. It defines the core abstractions for:
//
//   - Messages (immutable conversational records with role-based parts)
//   - Chunks (streaming message deltas and their fold into one message)
//   - Agents (named participants producing responses from a transcript)
//   - ChatHistory (ordered, append-only transcripts with optional reduction)
//   - The shared error taxonomy of the orchestration core
//
// The package intentionally keeps implementation concerns (policy managers,
// broadcast channels, runtimes, concrete histories) out of scope, exposing
// small interfaces to enable custom backends and extensions.
package core
