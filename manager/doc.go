// Package manager provides the group-chat policy component: given the
// current transcript it decides whether to request human input, which agent
// speaks next, whether the conversation terminates, and how the transcript
// reduces to a final result.
//
// The GroupChatManager contract is a closed set of five operations plus round
// bookkeeping. Concrete variants are self-contained values implementing the
// same interface:
//
//   - RoundRobin: deterministic rotation over the participant list
//   - ModelSelector: a chat model decides selection and termination via
//     JSON-structured responses
//   - custom managers: embed Base and override individual operations,
//     carrying constructor-injected state (e.g. a correlation id for
//     server-side human-input requests)
//
// Every operation returns a small result value carrying the decision plus a
// human-readable justification. The justification is for observability only
// and never drives control flow.
package manager
