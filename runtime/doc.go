// Package runtime executes orchestrations as background tasks inside the
// current process. Callers schedule work and receive a ResultHandle that
// resolves exactly once with the task's final message or error. The runtime
// tracks every in-flight task so it can wait for quiescence (StopWhenIdle) or
// cancel everything at once (Stop).
package runtime
