package osdlogin

import (
	"errors"

	"github.com/RoCS2024/osdlogin/authclient"
)

// Remote-call errors are normalized by the auth client and re-exported here
// so callers match the whole taxonomy against one package.
var (
	// ErrInvalidCredentials is returned when the service answers 400.
	ErrInvalidCredentials = authclient.ErrInvalidCredentials
	// ErrServerRejected is returned for any other non-200 status.
	ErrServerRejected = authclient.ErrServerRejected
	// ErrNoResponse is returned when the request was sent but nothing usable came back.
	ErrNoResponse = authclient.ErrNoResponse
	// ErrRequestFailed is returned when the request could not be constructed or sent.
	ErrRequestFailed = authclient.ErrRequestFailed
)

var (
	// ErrMissingSubjectID is returned on a 200 response without a subject identifier.
	ErrMissingSubjectID = errors.New("login response missing subject identifier")
	// ErrMissingToken is returned on a 200 response without a token header.
	ErrMissingToken = errors.New("login response missing session token")
	// ErrUnauthorized is returned when the token yields no recognized role authority.
	ErrUnauthorized = errors.New("no recognized role authority")
	// ErrSessionPersistence is returned when the session could not be durably saved.
	ErrSessionPersistence = errors.New("session persistence failed")
	// ErrSubmitInFlight is returned when a submit is attempted while one is running.
	ErrSubmitInFlight = errors.New("a login attempt is already in flight")
	// ErrFlowNotReady is returned when the flow was not built through Builder.Build.
	ErrFlowNotReady = errors.New("flow not initialized")
)
