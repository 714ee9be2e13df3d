package osdlogin

import "errors"

// Message is the user-facing classification of a login failure. Inline
// selects the field-adjacent error text; Alert selects a blocking dialog.
// Both may be set for the same failure.
type Message struct {
	Text   string
	Inline bool
	Alert  bool
}

const (
	msgInvalidCredentials = "Incorrect username or password. Please try again."
	msgMissingSubjectID   = "Login failed: the server response was missing your account identifier."
	msgMissingToken       = "Login failed: the server did not return a session token."
	msgUnauthorized       = "You are not authorized to use this application."
	msgInvalidRequest     = "Invalid request. Please try again."
	msgNoResponse         = "Cannot reach the server. Please check your connection and try again."
	msgRequestFailed      = "Something went wrong sending your request. Please try again."
	msgSessionSaveFailed  = "Could not save your session on this device. Please try again."
	msgSubmitInFlight     = "A sign-in attempt is already in progress."
	msgGeneric            = "Login failed. Please try again."
)

// Classify maps a Submit error to its user-facing message per the flow's
// error taxonomy. Unknown errors fall back to a generic inline message.
func Classify(err error) Message {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return Message{Text: msgInvalidCredentials, Inline: true}
	case errors.Is(err, ErrMissingSubjectID):
		return Message{Text: msgMissingSubjectID, Inline: true}
	case errors.Is(err, ErrMissingToken):
		return Message{Text: msgMissingToken, Inline: true}
	case errors.Is(err, ErrUnauthorized):
		return Message{Text: msgUnauthorized, Alert: true}
	case errors.Is(err, ErrServerRejected):
		text := msgInvalidRequest
		var serverErr *ServerError
		if errors.As(err, &serverErr) && serverErr.Message != "" {
			text = serverErr.Message
		}
		return Message{Text: text, Inline: true, Alert: true}
	case errors.Is(err, ErrNoResponse):
		return Message{Text: msgNoResponse, Inline: true, Alert: true}
	case errors.Is(err, ErrRequestFailed):
		return Message{Text: msgRequestFailed, Inline: true, Alert: true}
	case errors.Is(err, ErrSessionPersistence):
		return Message{Text: msgSessionSaveFailed, Inline: true, Alert: true}
	case errors.Is(err, ErrSubmitInFlight):
		return Message{Text: msgSubmitInFlight, Inline: true}
	default:
		return Message{Text: msgGeneric, Inline: true}
	}
}
