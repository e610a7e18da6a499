// Package history provides ChatHistory implementations: a plain in-memory
// append-only transcript plus reducing variants that bound context size by
// truncating older messages (count-based) or by enforcing a token budget.
// All variants satisfy the same append contract so they are interchangeable
// wherever a core.ChatHistory is accepted.
package history
