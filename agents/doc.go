// Package agents provides ready-made core.Agent implementations: ModelAgent
// wraps a chat model behind the agent contract, FuncAgent lifts a plain Go
// function into an agent. Both satisfy core.Agent and can join any group
// chat.
package agents
