// Package osdlogin implements the authentication and session-establishment
// flow of the campus records application: credential submission, response
// interpretation, token decoding, role extraction, durable session
// persistence, and role-based routing.
//
// The package is the public surface. It exposes [Flow], [Builder], [Config],
// value types (Credentials, Outcome, Destination, etc.), and the error
// taxonomy consumed by the view layer through [Classify]. Token decoding,
// the remote call, and session storage live in the token, authclient, and
// session sub-packages; audit dispatch and metrics live under internal/ and
// are never exported directly.
//
// # Flow contract
//
// One [Flow.Submit] call is one login attempt: Idle → Submitting →
// {Success, Failed}. A second Submit while one is in flight is rejected
// with [ErrSubmitInFlight]. A session is persisted if and only if the
// remote call returned 200 with a non-empty subject identifier and token,
// and the token's claim set yielded a known role — persistence is
// all-or-nothing, never partial.
//
// # What this package must NOT do
//
//   - Render UI, manage navigation stacks, or own credential input; the
//     view layer calls Submit and reads [Flow.LastMessage].
//   - Retry failed attempts automatically.
//   - Expose Redis clients or store encodings in its public API.
package osdlogin
