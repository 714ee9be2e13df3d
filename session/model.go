package session

import (
	"errors"
	"fmt"
)

// Fixed slot names of the durable session store. Exactly one of the three
// identifier slots is populated by a given login.
const (
	KeyRole           = "role"
	KeyToken          = "token"
	KeyGuestID        = "guestId"
	KeyEmployeeNumber = "employeeNumber"
	KeyStudentNumber  = "studentNumber"
)

// ErrIncomplete is returned when a Session is missing a required field.
var ErrIncomplete = errors.New("incomplete session")

// IdentifierKeys returns the three mutually exclusive identifier slots.
func IdentifierKeys() []string {
	return []string{KeyGuestID, KeyEmployeeNumber, KeyStudentNumber}
}

func slotKeys() []string {
	return []string{KeyRole, KeyToken, KeyGuestID, KeyEmployeeNumber, KeyStudentNumber}
}

// Session is the durable association established by a successful login.
//
// Authority is the raw matched ROLE_ tag (persisted under the role slot),
// Token the opaque session token, SubjectID the server-assigned identifier,
// and IdentifierKey the single identifier slot SubjectID belongs in.
type Session struct {
	Authority     string
	Token         string
	SubjectID     string
	IdentifierKey string
}

// Validate reports whether the session satisfies the all-or-nothing
// persistence contract: every field present and IdentifierKey one of the
// three known identifier slots.
func (s *Session) Validate() error {
	if s == nil || s.Authority == "" || s.Token == "" || s.SubjectID == "" {
		return ErrIncomplete
	}
	switch s.IdentifierKey {
	case KeyGuestID, KeyEmployeeNumber, KeyStudentNumber:
		return nil
	default:
		return fmt.Errorf("%w: unknown identifier slot %q", ErrIncomplete, s.IdentifierKey)
	}
}

// Slots returns the full slot map for one login: role, token, the populated
// identifier slot, and empty strings for the other two identifier slots so
// that a save fully overwrites any prior session.
func (s *Session) Slots() map[string]string {
	slots := map[string]string{
		KeyRole:  s.Authority,
		KeyToken: s.Token,
	}
	for _, key := range IdentifierKeys() {
		slots[key] = ""
	}
	slots[s.IdentifierKey] = s.SubjectID
	return slots
}
