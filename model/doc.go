// Package model defines the minimal chat-model abstraction consumed by
// model-driven group-chat managers. Managers need exactly one capability:
// a single-shot completion over a transcript, optionally constrained to a
// JSON object so selection/termination decisions can be parsed structurally.
// Provider adapters live in the openai and anthropic subpackages; MockModel
// serves tests and examples.
package model
