// Package logging provides a minimal logging interface and adapters for Roundtable.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the orchestration core uses for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - RoundtableLogger with contextual helpers and domain specific logging
//     for turns, selection decisions, termination and human input
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	orch := orchestration.NewGroupChat(manager, members, orchestration.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
