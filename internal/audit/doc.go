// Package audit defines the audit event model and sink implementations for
// the login flow.
//
// # Components
//
//   - [Sink] — interface for event consumers (channel, JSON writer, no-op).
//   - [Event] — structured record with attempt ID, username, authority, metadata.
//
// Buffering and async delivery are owned by the flow's dispatcher; this
// package only defines what an event is and where it can land.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import osdlogin or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
