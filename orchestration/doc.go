// Package orchestration wires agents, a group-chat manager, and a runtime
// into a running conversation. GroupChat drives the turn loop: each iteration
// asks the manager whether to terminate, whether to solicit human input, and
// which agent speaks next, then invokes that agent through the shared chat
// surface. The loop runs as a scheduled task and resolves a result handle
// with the manager's filtered final message.
package orchestration
