// Package convo implements the per-owner conversational state machine that
// turns a sequence of inbound events into a committed reminder (creation
// flow) or a single-field update (edit flow).
//
// # State machine
//
// Creation walks Idle -> AwaitingType -> AwaitingText, then branches on the
// chosen kind: weekly visits AwaitingDays, the date kinds visit
// AwaitingDate, daily goes straight to AwaitingTime. Every flow ends at
// AwaitingTime, where the draft is committed and the state returns to Idle.
// Editing(field) is entered directly from Idle and commits after one
// validated input.
//
// Events are a closed set of typed values dispatched on (state, event)
// pairs; an event that the current state does not accept is a no-op. This
// replaces dispatch on message prefixes: illegal transitions are simply
// unrepresentable.
//
// # Ownership and concurrency
//
// Drafts are keyed by owner id in a mutex-guarded map: two owners never
// interfere, and within one owner only the latest in-flight flow exists.
// Drafts are ephemeral - created on flow start, destroyed on commit,
// cancel, or a not-found error, never persisted.
//
// # Error recovery
//
// Validation failures re-prompt the same step without touching the draft.
// Store failures keep the draft and state so the owner can retry without
// re-entering prior steps. A missing target reminder resets to Idle with a
// user-visible message.
package convo
