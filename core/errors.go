package core

import (
	"errors"
	"fmt"
)

// Sentinel errors of the orchestration core.
var (
	// ErrConcurrentActivity is returned when a chat mutation is attempted
	// while another is in flight. This is a programming-contract violation,
	// not a retryable condition.
	ErrConcurrentActivity = errors.New("chat is already active: concurrent mutations are not allowed")

	// ErrResultTimeout is returned by a result handle's bounded Get when the
	// deadline passes before the orchestration resolves. The orchestration
	// keeps running; a later Get can still observe the eventual result.
	ErrResultTimeout = errors.New("timed out waiting for orchestration result")

	// ErrOrchestrationCancelled resolves a result handle when the runtime is
	// stopped or the orchestration's context is cancelled before termination.
	// It is a defined terminal state rather than a failure.
	ErrOrchestrationCancelled = errors.New("orchestration was cancelled")

	// ErrNoResult is returned when the manager's result filter produces no
	// final value for a completed orchestration.
	ErrNoResult = errors.New("orchestration completed without a result")
)

// ConfigError reports an invalid orchestration or manager configuration.
// Raised synchronously at construction or first invocation and always fatal.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NewConfigError constructs a ConfigError for the named configuration field.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// SelectionError reports a manager selection contract violation: the manager
// chose an agent name not present among the participants. Fails the current
// orchestration rather than silently falling back to a default.
type SelectionError struct {
	Selected     string
	Participants []string
}

// Error implements the error interface.
func (e *SelectionError) Error() string {
	return fmt.Sprintf("manager selected unknown agent %q (participants: %v)", e.Selected, e.Participants)
}
