// Package authclient performs the single remote call of the login flow:
// POST credentials as JSON, receive the subject identifier in the body and
// the session token in a response header.
//
// Transport and protocol outcomes are normalized into a small error
// taxonomy: 400 → [ErrInvalidCredentials], other non-200 →
// [ErrServerRejected] (joined with [ServerError] carrying the server's
// message), send-but-no-answer → [ErrNoResponse], could-not-send →
// [ErrRequestFailed]. A 200 with a parseable body is the only success path.
package authclient
